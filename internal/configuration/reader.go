package configuration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/helper"
	"url-monitor/internal/logfile"
	"url-monitor/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"url":          "monitor.url",
	"timeout":      "monitor.timeout",
	"interval":     "monitor.interval",
	"log-file":     "monitor.log_file",
	"max-log-size": "monitor.max_log_size",
	"history":      "monitor.history",
	"log-level":    "log_level",
	"app-log":      "app_log",
}

// envKeys maps config keys onto environment variables.
var envKeys = map[string]string{
	"monitor.url":          ENV_PREFIX + "_URL",
	"monitor.timeout":      ENV_PREFIX + "_TIMEOUT",
	"monitor.interval":     ENV_PREFIX + "_INTERVAL",
	"monitor.log_file":     ENV_PREFIX + "_LOG_FILE",
	"monitor.max_log_size": ENV_PREFIX + "_MAX_LOG_SIZE",
	"monitor.history":      ENV_PREFIX + "_HISTORY",
	"log_level":            ENV_PREFIX + "_LOG_LEVEL",
	"app_log":              ENV_PREFIX + "_APP_LOG",
}

// MonitorSettings is the parsed monitor section. Zero Timeout or Interval
// mean the operator is asked.
type MonitorSettings struct {
	URL        string
	Timeout    time.Duration
	Interval   time.Duration
	LogFile    string
	MaxLogSize int64
	History    int
}

type ConfigReader struct {
	viper *viper.Viper
}

func NewConfigReader() *ConfigReader {
	v := viper.New()
	v.SetDefault("monitor.log_file", logfile.DefaultPath)
	v.SetDefault("monitor.max_log_size", MAX_LOG_SIZE)
	v.SetDefault("monitor.history", models.DefaultHistoryWindow)
	v.SetDefault("log_level", "info")

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	return &ConfigReader{viper: v}
}

// ReadConfig loads a YAML config file. A missing file is only an error when
// required is set.
func (cr *ConfigReader) ReadConfig(filePath string, required bool) error {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}

	cr.viper.SetConfigFile(filePath)
	cr.viper.SetConfigType("yaml")

	if err := cr.viper.ReadInConfig(); err != nil {
		return failure.New(failure.Configuration, "read config", filePath, err)
	}

	return nil
}

// BindFlags lets flags that were set on the command line override the file
// and the environment.
func (cr *ConfigReader) BindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := cr.viper.BindPFlag(key, flag); err != nil {
			return failure.New(failure.Configuration, "bind flag", name, err)
		}
	}
	return nil
}

func (cr *ConfigReader) GetString(key string) string {
	return cr.viper.GetString(key)
}

func (cr *ConfigReader) ParseConfig() (*MonitorSettings, error) {
	settings := &MonitorSettings{
		URL:     cr.viper.GetString("monitor.url"),
		LogFile: cr.viper.GetString("monitor.log_file"),
		History: cr.viper.GetInt("monitor.history"),
	}

	var err error
	if settings.Timeout, err = parseDuration(cr.viper.GetString("monitor.timeout")); err != nil {
		return nil, failure.New(failure.Configuration, "parse", "timeout", err)
	}
	if settings.Interval, err = parseDuration(cr.viper.GetString("monitor.interval")); err != nil {
		return nil, failure.New(failure.Configuration, "parse", "interval", err)
	}

	size, err := humanize.ParseBytes(cr.viper.GetString("monitor.max_log_size"))
	if err != nil {
		return nil, failure.New(failure.Configuration, "parse", "max_log_size", err)
	}
	if size == 0 {
		return nil, failure.New(failure.Configuration, "parse", "max_log_size", errors.New("must be greater than zero"))
	}
	settings.MaxLogSize = int64(size)

	if settings.History < 0 {
		return nil, failure.New(failure.Configuration, "parse", "history", fmt.Errorf("%d is negative", settings.History))
	}

	return settings, nil
}

// parseDuration accepts whole seconds, Go durations and the 1d/1M forms of
// helper.ParseDuration. Empty input yields zero.
func parseDuration(input string) (time.Duration, error) {
	if input == "" {
		return 0, nil
	}

	if d, err := helper.ParseSeconds(input); err == nil {
		return d, nil
	}

	d := helper.ParseDuration(input, "0s")
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	return d, nil
}

// UpdateConfig validates a JSON monitor section and writes it to path as
// YAML under the `monitor` key.
func UpdateConfig(path string, body []byte) error {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewBuffer(body)); err != nil {
		return failure.New(failure.Configuration, "read json", "", err)
	}

	section := v
	if v.IsSet("monitor") {
		section = v.Sub("monitor")
		if section == nil {
			return failure.New(failure.Configuration, "read json", "", errors.New("'monitor' must be an object"))
		}
	}

	var monitor MonitorConfig
	if err := section.Unmarshal(&monitor); err != nil {
		return failure.New(failure.Configuration, "decode json", "", err)
	}

	check := NewConfigReader()
	for key, value := range map[string]string{
		"monitor.url":      monitor.URL,
		"monitor.timeout":  monitor.Timeout,
		"monitor.interval": monitor.Interval,
		"monitor.log_file": monitor.LogFile,
	} {
		if value != "" {
			check.viper.Set(key, value)
		}
	}
	if monitor.MaxLogSize != "" {
		check.viper.Set("monitor.max_log_size", monitor.MaxLogSize)
	}
	if monitor.History != nil {
		check.viper.Set("monitor.history", *monitor.History)
	}
	if _, err := check.ParseConfig(); err != nil {
		return err
	}

	yamlData, err := yaml.Marshal(map[string]any{"monitor": monitor})
	if err != nil {
		return failure.New(failure.Configuration, "encode yaml", "", err)
	}

	if err := os.WriteFile(path, yamlData, 0644); err != nil {
		return failure.New(failure.Configuration, "write config", path, err)
	}

	return nil
}
