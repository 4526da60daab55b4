package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the tool reads
const EnvPrefix = "JIRARECON_"

// Config holds all configuration options for a recon run
type Config struct {
	// Atlassian endpoint settings
	Atlassian AtlassianConfig `yaml:"atlassian" json:"atlassian"`

	// HTTP fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Terminal presentation
	UI UIConfig `yaml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AtlassianConfig describes where the REST API lives
type AtlassianConfig struct {
	// BaseURLTemplate is formatted with the company subdomain when it
	// contains a %s verb, otherwise used verbatim.
	BaseURLTemplate  string `yaml:"base_url_template" json:"base_url_template"`
	FilterSearchPath string `yaml:"filter_search_path" json:"filter_search_path"`
	DashboardPath    string `yaml:"dashboard_path" json:"dashboard_path"`
	UserAgent        string `yaml:"user_agent" json:"user_agent"`
}

// FetchConfig holds request concurrency and timeout settings
type FetchConfig struct {
	ConcurrentRequests int           `yaml:"concurrent_requests" json:"concurrent_requests"`
	RequestTimeout     time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// UIConfig holds terminal presentation preferences
type UIConfig struct {
	Spinner bool `yaml:"spinner" json:"spinner"`
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Atlassian: AtlassianConfig{
			BaseURLTemplate:  "https://%s.atlassian.net",
			FilterSearchPath: "/rest/api/2/filter/search",
			DashboardPath:    "/rest/api/3/dashboard",
			UserAgent:        "jirarecon/1.0",
		},
		Fetch: FetchConfig{
			ConcurrentRequests: 10,
			RequestTimeout:     30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
		},
		UI: UIConfig{
			Spinner: true,
			NoColor: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvPrefix + "BASE_URL_TEMPLATE"); v != "" {
		c.Atlassian.BaseURLTemplate = v
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Atlassian.UserAgent = v
	}

	if v := os.Getenv(EnvPrefix + "CONCURRENT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCONCURRENT_REQUESTS %q: %w", EnvPrefix, v, err)
		}
		c.Fetch.ConcurrentRequests = n
	}
	if v := os.Getenv(EnvPrefix + "REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.Fetch.RequestTimeout = d
	}

	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}

	if v := os.Getenv(EnvPrefix + "SPINNER"); v != "" {
		c.UI.Spinner = strings.ToLower(v) == "true"
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".jirarecon.yaml",
		".jirarecon.yml",
		filepath.Join(home, ".config", "jirarecon", "config.yaml"),
		filepath.Join(home, ".config", "jirarecon", "config.yml"),
		filepath.Join(home, ".jirarecon.yaml"),
		filepath.Join(home, ".jirarecon.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Atlassian.BaseURLTemplate == "" {
		errs = append(errs, errors.New("atlassian base URL template is required"))
	}
	if c.Atlassian.FilterSearchPath == "" {
		errs = append(errs, errors.New("filter search path is required"))
	}
	if c.Atlassian.DashboardPath == "" {
		errs = append(errs, errors.New("dashboard path is required"))
	}

	if c.Fetch.ConcurrentRequests <= 0 {
		errs = append(errs, errors.New("concurrent requests must be positive"))
	}
	if c.Fetch.ConcurrentRequests > 50 {
		errs = append(errs, errors.New("concurrent requests should not exceed 50"))
	}
	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Fetch.ConcurrentRequests = concurrent
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Fetch.RequestTimeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.UI.NoColor = true
	}
	if spinner, ok := flags["spinner"].(bool); ok {
		c.UI.Spinner = spinner
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".jirarecon.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
