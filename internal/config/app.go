// Package config loads the hotelpro configuration from file, flags and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HOTELPRO_SERVER_ADDR.
const EnvPrefix = "HOTELPRO"

// Backend types.
const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Backend BackendConfig `mapstructure:"backend"`
	Server  ServerConfig  `mapstructure:"server"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	SessionSecret string        `mapstructure:"session_secret"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	Metrics       bool          `mapstructure:"metrics"`
}

// BackendConfig selects and locates the record store.
type BackendConfig struct {
	Type       string `mapstructure:"type"`
	XLSXPath   string `mapstructure:"xlsx_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig configures the default slog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "hotelpro")
}

// SetDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.session_ttl", 12*time.Hour)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.metrics", true)

	v.SetDefault("backend.type", BackendXLSX)
	v.SetDefault("backend.xlsx_path", "hotel_data.xlsx")
	v.SetDefault("backend.sqlite_path", filepath.Join(Dir(), "hotelpro.db"))

	v.SetDefault("sheets.service_account_path", "")
	v.SetDefault("sheets.service_account_json", "")
	v.SetDefault("sheets.client_id", "")
	v.SetDefault("sheets.client_secret", "")
	v.SetDefault("sheets.refresh_token", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.spreadsheet_name", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// BindEnv enables HOTELPRO_ environment overrides with dots mapped to underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Backend.Type = strings.ToLower(strings.TrimSpace(cfg.Backend.Type))
	cfg.Backend.XLSXPath = ExpandPath(cfg.Backend.XLSXPath)
	cfg.Backend.SQLitePath = ExpandPath(cfg.Backend.SQLitePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Backend.Type {
	case BackendXLSX:
		if c.Backend.XLSXPath == "" {
			return fmt.Errorf("%w: backend.xlsx_path is empty", common.ErrMissingConfig)
		}
	case BackendSQLite:
		if c.Backend.SQLitePath == "" {
			return fmt.Errorf("%w: backend.sqlite_path is empty", common.ErrMissingConfig)
		}
	case BackendSheets:
	default:
		return fmt.Errorf("%w: unknown backend.type %q (want xlsx, sheets or sqlite)", common.ErrInvalidConfig, c.Backend.Type)
	}

	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("%w: server.session_ttl cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
