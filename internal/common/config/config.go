// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	API         APIConfig         `mapstructure:"api"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the remote decision service.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// CredentialsConfig selects and configures the token store backend.
type CredentialsConfig struct {
	Backend string      `mapstructure:"backend"` // "redis", "file" or "memory"
	Redis   RedisConfig `mapstructure:"redis"`
	File    FileConfig  `mapstructure:"file"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch cfg.Credentials.Backend {
	case "redis":
		if cfg.Credentials.Redis.Address == "" {
			return fmt.Errorf("credentials.redis.address is required for the redis backend")
		}
	case "file":
		if cfg.Credentials.File.Path == "" {
			return fmt.Errorf("credentials.file.path is required for the file backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown credentials backend %q", cfg.Credentials.Backend)
	}
	return nil
}
