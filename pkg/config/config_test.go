package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "https://%s.atlassian.net", config.Atlassian.BaseURLTemplate)
	assert.Equal(t, "/rest/api/2/filter/search", config.Atlassian.FilterSearchPath)
	assert.Equal(t, "/rest/api/3/dashboard", config.Atlassian.DashboardPath)
	assert.Equal(t, 10, config.Fetch.ConcurrentRequests)
	assert.Equal(t, 30*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, ".", config.Output.BaseDirectory)
	assert.True(t, config.UI.Spinner)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JIRARECON_BASE_URL_TEMPLATE", "http://localhost:8080")
	t.Setenv("JIRARECON_CONCURRENT_REQUESTS", "5")
	t.Setenv("JIRARECON_REQUEST_TIMEOUT", "5s")
	t.Setenv("JIRARECON_OUTPUT_DIR", "/tmp/recon")
	t.Setenv("JIRARECON_SPINNER", "false")
	t.Setenv("JIRARECON_LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "1")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080", config.Atlassian.BaseURLTemplate)
	assert.Equal(t, 5, config.Fetch.ConcurrentRequests)
	assert.Equal(t, 5*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, "/tmp/recon", config.Output.BaseDirectory)
	assert.False(t, config.UI.Spinner)
	assert.True(t, config.UI.NoColor)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("JIRARECON_CONCURRENT_REQUESTS", "lots")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `
atlassian:
  base_url_template: "https://%s.example.net"
fetch:
  concurrent_requests: 4
  request_timeout: 12s
output:
  base_directory: "./out"
logging:
  level: "warn"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(configPath))

	assert.Equal(t, "https://%s.example.net", config.Atlassian.BaseURLTemplate)
	// untouched keys keep their defaults
	assert.Equal(t, "/rest/api/3/dashboard", config.Atlassian.DashboardPath)
	assert.Equal(t, 4, config.Fetch.ConcurrentRequests)
	assert.Equal(t, 12*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, "./out", config.Output.BaseDirectory)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	assert.Error(t, config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Fetch.ConcurrentRequests = 0 }, true},
		{"too much concurrency", func(c *Config) { c.Fetch.ConcurrentRequests = 51 }, true},
		{"zero timeout", func(c *Config) { c.Fetch.RequestTimeout = 0 }, true},
		{"empty output", func(c *Config) { c.Output.BaseDirectory = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"empty base url", func(c *Config) { c.Atlassian.BaseURLTemplate = "" }, true},
		{"upper case level", func(c *Config) { c.Logging.Level = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"output":     "/data",
		"concurrent": 7,
		"timeout":    3 * time.Second,
		"log-level":  "error",
		"no-color":   true,
		"spinner":    false,
	})

	assert.Equal(t, "/data", config.Output.BaseDirectory)
	assert.Equal(t, 7, config.Fetch.ConcurrentRequests)
	assert.Equal(t, 3*time.Second, config.Fetch.RequestTimeout)
	assert.Equal(t, "error", config.Logging.Level)
	assert.True(t, config.UI.NoColor)
	assert.False(t, config.UI.Spinner)
}

func TestLoadPrecedence(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("fetch:\n  concurrent_requests: 4\nlogging:\n  level: warn\n"), 0644))

	t.Setenv("JIRARECON_CONCURRENT_REQUESTS", "6")

	config, err := Load(configPath, map[string]interface{}{"log-level": "debug"})
	require.NoError(t, err)

	assert.Equal(t, 6, config.Fetch.ConcurrentRequests)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFailsValidation(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("fetch:\n  concurrent_requests: 0\n"), 0644))

	_, err = Load(configPath, nil)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Fetch.ConcurrentRequests = 3
	require.NoError(t, config.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, 3, loaded.Fetch.ConcurrentRequests)
	assert.Equal(t, config.Fetch.RequestTimeout, loaded.Fetch.RequestTimeout)
}
