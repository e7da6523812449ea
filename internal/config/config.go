package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "RESULTMON"

// Config holds the CLI settings. The mapstructure tags are used by viper.
type Config struct {
	Store       string `mapstructure:"store" validate:"oneof=file memory sqlite"`
	Path        string `mapstructure:"path"`
	UniqueNames bool   `mapstructure:"unique_names"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Seed        int64  `mapstructure:"seed"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads defaults, an optional .env file, RESULTMON_* environment
// variables and, when path is set or ./resultmon.yaml exists, a config file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("store", "file")
	v.SetDefault("path", "")
	v.SetDefault("unique_names", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("seed", 1)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("resultmon")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
