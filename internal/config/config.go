package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAPIURL      = "http://localhost:8000"
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MiB
	DefaultMaxPolls    = 30
	DefaultInterval    = 2000 * time.Millisecond
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"
)

// DefaultAllowedTypes are the resume formats the backend accepts: PDF, DOC and DOCX.
var DefaultAllowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Config holds the application configuration
type Config struct {
	APIURL      string        `mapstructure:"api_url"`
	LogLevel    string        `mapstructure:"log_level"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Upload      Upload        `mapstructure:"upload"`
	Polling     Polling       `mapstructure:"polling"`
}

// Upload holds the client-side resume constraints
type Upload struct {
	MaxFileSize  int64    `mapstructure:"max_file_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// Polling holds the processing-status polling parameters. The overall
// budget is derived from these two values and never configured separately.
type Polling struct {
	MaxPolls int           `mapstructure:"max_polls"`
	Interval time.Duration `mapstructure:"interval"`
}

// Budget is the longest a poll can wait between the first and last request.
func (p Polling) Budget() time.Duration {
	return time.Duration(p.MaxPolls) * p.Interval
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		LogLevel:    DefaultLogLevel,
		HTTPTimeout: DefaultHTTPTimeout,
		Upload: Upload{
			MaxFileSize:  DefaultMaxFileSize,
			AllowedTypes: append([]string(nil), DefaultAllowedTypes...),
		},
		Polling: Polling{
			MaxPolls: DefaultMaxPolls,
			Interval: DefaultInterval,
		},
	}
}

// Load reads the configuration file at path, creating it with defaults when
// it does not exist. An empty path means the default location. The API base
// URL can be overridden with AICA_API_URL or NEXT_PUBLIC_API_URL.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfig(path); err != nil {
			return nil, err
		}
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("http_timeout", def.HTTPTimeout)
	v.SetDefault("upload.max_file_size", def.Upload.MaxFileSize)
	v.SetDefault("upload.allowed_types", def.Upload.AllowedTypes)
	v.SetDefault("polling.max_polls", def.Polling.MaxPolls)
	v.SetDefault("polling.interval", def.Polling.Interval)

	_ = v.BindEnv("api_url", "AICA_API_URL", "NEXT_PUBLIC_API_URL")
	_ = v.BindEnv("log_level", "AICA_LOG_LEVEL")
	return v
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Upload.MaxFileSize <= 0 {
		c.Upload.MaxFileSize = DefaultMaxFileSize
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = append([]string(nil), DefaultAllowedTypes...)
	}
	if c.Polling.MaxPolls < 1 {
		return fmt.Errorf("polling.max_polls must be at least 1, got: %d", c.Polling.MaxPolls)
	}
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive, got: %s", c.Polling.Interval)
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# aica configuration
# Backend base URL (AICA_API_URL overrides this)
api_url: http://localhost:8000
log_level: info
http_timeout: 30s

# Resume constraints checked before upload
upload:
  max_file_size: 10485760
  allowed_types:
    - application/pdf
    - application/msword
    - application/vnd.openxmlformats-officedocument.wordprocessingml.document

# Processing status polling: at most max_polls requests, interval apart
polling:
  max_polls: 30
  interval: 2s
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// SettableKeys are the keys `aica config set` accepts.
var SettableKeys = []string{"api_url", "log_level", "http_timeout", "polling.max_polls", "polling.interval", "upload.max_file_size"}

// Set updates a configuration value in the file at path
func Set(path, key, value string) error {
	if path == "" {
		path = Path()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)
	return v.WriteConfig()
}

// Dir returns the directory holding the config file and local database
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".aica"
	}
	return filepath.Join(homeDir, ".aica")
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}
