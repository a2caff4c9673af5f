package configuration

const (
	APP_NAME     = "url-monitor"
	CONFIG_PATH  = APP_NAME + ".yml"
	ENV_PREFIX   = "URL_MONITOR"
	MAX_LOG_SIZE = "10MB"
)

type AppConfig struct {
	ConfigFile string
	LogLevel   string
	AppLog     string
	NoTime     bool
}

// MonitorConfig is the `monitor` section of the config file as written.
type MonitorConfig struct {
	URL        string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
	Timeout    string `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Interval   string `mapstructure:"interval" yaml:"interval,omitempty" json:"interval,omitempty"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file,omitempty" json:"log_file,omitempty"`
	MaxLogSize string `mapstructure:"max_log_size" yaml:"max_log_size,omitempty" json:"max_log_size,omitempty"`
	History    *int   `mapstructure:"history" yaml:"history,omitempty" json:"history,omitempty"`
}

var Config AppConfig
