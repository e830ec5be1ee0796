package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRequestTimeout bounds every outbound request. A request that
// exceeds it is reported as a transport failure.
const DefaultRequestTimeout = 10 * time.Second

// Config holds all client configuration. The API base address is the
// only externally required value; everything else has a sensible default.
type Config struct {
	// BaseURL is the single base address (host/port, including the API
	// prefix) all requests are issued against.
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each outbound request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// DataDir holds the credential file and the feed cache database.
	DataDir string `yaml:"data_dir"`

	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// fileConfig mirrors Config for the optional YAML file, with the timeout
// expressed in seconds.
type fileConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
	DataDir        string `yaml:"data_dir"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfig builds the configuration from the optional config file at
// ~/.echo/config.yaml overlaid with environment variables; env always
// wins over the file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BaseURL:        "http://localhost:5000/api",
		RequestTimeout: DefaultRequestTimeout,
		DataDir:        defaultDataDir(),
		Environment:    "development",
		LogLevel:       "info",
	}

	if path := configFilePath(); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig.
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks that required configuration is present and well-formed.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required (set ECHO_API_URL)")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base URL %q must start with http:// or https://", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CredentialPath is the location of the persisted session credential.
func (c *Config) CredentialPath() string {
	return filepath.Join(c.DataDir, "credential.json")
}

// FeedCachePath is the location of the sqlite feed cache.
func (c *Config) FeedCachePath() string {
	return filepath.Join(c.DataDir, "feed.db")
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(fc.BaseURL, "/")
	}
	if fc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeout) * time.Second
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.Environment != "" {
		cfg.Environment = fc.Environment
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = strings.TrimRight(getEnv("ECHO_API_URL", cfg.BaseURL), "/")
	cfg.DataDir = getEnv("ECHO_DATA_DIR", cfg.DataDir)
	cfg.Environment = getEnv("ECHO_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("ECHO_LOG_LEVEL", cfg.LogLevel)

	if secs := getEnvInt("ECHO_REQUEST_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
}

// configFilePath returns ~/.echo/config.yaml, honoring ECHO_CONFIG_FILE.
func configFilePath() string {
	if path := os.Getenv("ECHO_CONFIG_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".echo", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".echo"
	}
	return filepath.Join(home, ".echo")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
