// Package config loads process configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "fieldready/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Edge     EdgeConfig     `koanf:"edge"`
	Export   ExportConfig   `koanf:"export"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr      string        `koanf:"addr"`
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// EdgeConfig holds the local single-file store settings
type EdgeConfig struct {
	SQLitePath string `koanf:"sqlite_path"`
}

// ExportConfig holds report and workbook output settings
type ExportConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `koanf:"level"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":8090",
			TokenTTL: 12 * time.Hour,
		},
		Edge: EdgeConfig{
			SQLitePath: "fieldready.db",
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a Config by layering (low to high precedence):
//  1. Defaults()
//  2. YAML file named by FIELDREADY_CONFIG, when set
//  3. environment variables with prefix FIELDREADY_, double underscore
//     as the section separator (FIELDREADY_SERVER__ADDR -> server.addr)
func Load() (Config, error) {
	cfg := Defaults()
	k := koanf.New(".")

	if path := os.Getenv("FIELDREADY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, apperrors.ConfigInvalid(fmt.Sprintf("read config file: %v", err))
		}
	}

	envProvider := env.Provider("FIELDREADY_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "FIELDREADY_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, apperrors.ConfigInvalid(fmt.Sprintf("read environment: %v", err))
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, apperrors.ConfigInvalid(fmt.Sprintf("unmarshal config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants shared by every process
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return apperrors.ConfigInvalid("server.addr must not be empty")
	}
	if c.Server.TokenTTL <= 0 {
		return apperrors.ConfigInvalid("server.token_ttl must be positive")
	}
	switch c.Log.Level {
	case "error", "warn", "info", "debug":
	default:
		return apperrors.ConfigInvalid("log.level must be error, warn, info or debug")
	}
	return nil
}

// RequireServer checks the settings only the API process needs
func (c Config) RequireServer() error {
	if c.Server.JWTSecret == "" {
		return apperrors.ConfigInvalid("server.jwt_secret is required for the API")
	}
	if c.Database.URL == "" {
		return apperrors.ConfigInvalid("database.url is required for the API")
	}
	return nil
}
