package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"url-monitor/internal/failure"
	"url-monitor/internal/logfile"
	"url-monitor/internal/models"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), CONFIG_PATH)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseConfigDefaults(t *testing.T) {
	reader := NewConfigReader()
	require.NoError(t, reader.ReadConfig(filepath.Join(t.TempDir(), "missing.yml"), false))

	settings, err := reader.ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, &MonitorSettings{
		LogFile:    logfile.DefaultPath,
		MaxLogSize: 10 * 1000 * 1000,
		History:    models.DefaultHistoryWindow,
	}, settings)
	assert.Equal(t, "info", reader.GetString("log_level"))
}

func TestReadConfigRequiredMissing(t *testing.T) {
	err := NewConfigReader().ReadConfig(filepath.Join(t.TempDir(), "missing.yml"), true)
	assert.True(t, failure.Is(err, failure.Configuration))
}

func TestParseConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
monitor:
  url: example.com/health
  timeout: "5"
  interval: 1m30s
  log_file: /tmp/monitor/results.txt
  max_log_size: 1KiB
  history: 30
`)

	reader := NewConfigReader()
	require.NoError(t, reader.ReadConfig(path, true))

	settings, err := reader.ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, "example.com/health", settings.URL)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, 90*time.Second, settings.Interval)
	assert.Equal(t, "/tmp/monitor/results.txt", settings.LogFile)
	assert.Equal(t, int64(1024), settings.MaxLogSize)
	assert.Equal(t, 30, settings.History)
	assert.Equal(t, "debug", reader.GetString("log_level"))
}

func TestParseConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
monitor:
  timeout: 5s
  interval: 10s
`)
	t.Setenv(ENV_PREFIX+"_INTERVAL", "1d")

	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("timeout", "", "")
	flags.String("url", "", "")
	require.NoError(t, flags.Parse([]string{"--timeout", "3"}))

	reader := NewConfigReader()
	require.NoError(t, reader.ReadConfig(path, true))
	require.NoError(t, reader.BindFlags(flags))

	settings, err := reader.ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, settings.Timeout)
	assert.Equal(t, 24*time.Hour, settings.Interval)
	assert.Empty(t, settings.URL)
}

func TestParseConfigInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"timeout", "monitor:\n  timeout: soon\n"},
		{"interval", "monitor:\n  interval: \"-3\"\n"},
		{"max log size", "monitor:\n  max_log_size: lots\n"},
		{"zero max log size", "monitor:\n  max_log_size: \"0\"\n"},
		{"history", "monitor:\n  history: -1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := NewConfigReader()
			require.NoError(t, reader.ReadConfig(writeConfig(t, tc.content), true))

			_, err := reader.ParseConfig()
			require.Error(t, err)
			assert.Equal(t, failure.Configuration, failure.KindOf(err))
		})
	}
}

func TestUpdateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_PATH)

	err := UpdateConfig(path, []byte(`{"monitor": {"url": "https://example.com", "timeout": "10s", "history": 60}}`))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "monitor:\n    url: https://example.com\n    timeout: 10s\n    history: 60\n", string(data))

	reader := NewConfigReader()
	require.NoError(t, reader.ReadConfig(path, true))
	settings, err := reader.ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", settings.URL)
	assert.Equal(t, 10*time.Second, settings.Timeout)
	assert.Equal(t, 60, settings.History)
}

func TestUpdateConfigFlatObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_PATH)

	require.NoError(t, UpdateConfig(path, []byte(`{"interval": "30"}`)))

	reader := NewConfigReader()
	require.NoError(t, reader.ReadConfig(path, true))
	settings, err := reader.ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, settings.Interval)
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_PATH)

	err := UpdateConfig(path, []byte(`not json`))
	assert.True(t, failure.Is(err, failure.Configuration))

	err = UpdateConfig(path, []byte(`{"monitor": {"timeout": "whenever"}}`))
	assert.True(t, failure.Is(err, failure.Configuration))

	err = UpdateConfig(path, []byte(`{"monitor": "nope"}`))
	assert.True(t, failure.Is(err, failure.Configuration))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
