package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Convert ConvertConfig `yaml:"convert" envconfig:"CONVERT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"16777216" validate:"min=1"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration for the HTTP surface
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"20"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/rptcli.log"`
}

// ConvertConfig contains conversion behavior configuration
type ConvertConfig struct {
	// Workers bounds how many files a batch run converts concurrently.
	// Each conversion is still fully sequential internally.
	Workers   int    `yaml:"workers" envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"RPT Data" validate:"required"`
}

// Load loads configuration from environment variables and, when present, a
// config.yaml next to the executable. An explicitly set environment
// variable (prefix RPT) always wins; the file overrides built-in defaults
// for everything the environment leaves unset.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("RPT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config: a field keeps its env
// value when the matching environment variable is set, otherwise a non-zero
// file value replaces the default.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	override(&merged.Server.Port, fileCfg.Server.Port, "RPT_SERVER_PORT")
	override(&merged.Server.ReadTimeout, fileCfg.Server.ReadTimeout, "RPT_SERVER_READ_TIMEOUT")
	override(&merged.Server.WriteTimeout, fileCfg.Server.WriteTimeout, "RPT_SERVER_WRITE_TIMEOUT")
	override(&merged.Server.IdleTimeout, fileCfg.Server.IdleTimeout, "RPT_SERVER_IDLE_TIMEOUT")
	override(&merged.Server.ShutdownTimeout, fileCfg.Server.ShutdownTimeout, "RPT_SERVER_SHUTDOWN_TIMEOUT")
	override(&merged.Server.MaxUploadBytes, fileCfg.Server.MaxUploadBytes, "RPT_SERVER_MAX_UPLOAD_BYTES")
	// RateLimit.Enabled keeps its env/default value: a plain YAML bool
	// cannot distinguish false from unset.
	override(&merged.Server.RateLimit.RPS, fileCfg.Server.RateLimit.RPS, "RPT_SERVER_RATE_LIMIT_RPS")
	override(&merged.Server.RateLimit.Burst, fileCfg.Server.RateLimit.Burst, "RPT_SERVER_RATE_LIMIT_BURST")

	override(&merged.Logging.Level, fileCfg.Logging.Level, "RPT_LOGGING_LEVEL")
	override(&merged.Logging.Format, fileCfg.Logging.Format, "RPT_LOGGING_FORMAT")
	override(&merged.Logging.Output, fileCfg.Logging.Output, "RPT_LOGGING_OUTPUT")
	override(&merged.Logging.FilePath, fileCfg.Logging.FilePath, "RPT_LOGGING_FILE_PATH")

	override(&merged.Convert.Workers, fileCfg.Convert.Workers, "RPT_CONVERT_WORKERS")
	override(&merged.Convert.SheetName, fileCfg.Convert.SheetName, "RPT_CONVERT_SHEET_NAME")

	return merged
}

// override applies a config-file value unless it is zero or the matching
// environment variable was set explicitly.
func override[T comparable](dst *T, fileVal T, envKey string) {
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	var zero T
	if fileVal != zero {
		*dst = fileVal
	}
}

// validate checks the configuration against its struct tags.
func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the expected config file location, next to the
// executable. Falls back to the working directory when the executable path
// cannot be resolved (e.g. under go test).
func getConfigFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yaml")
}
