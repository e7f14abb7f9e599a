package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Server.SessionTTL)
	assert.True(t, cfg.Server.Metrics)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendXLSX, cfg.Backend.Type)
	assert.Equal(t, "hotel_data.xlsx", cfg.Backend.XLSXPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: "127.0.0.1:9000"
  session_secret: "s3cret"
  session_ttl: 30m
  cors_origins:
    - https://ops.example.com
  metrics: false
backend:
  type: SQLite
  sqlite_path: ` + filepath.Join(dir, "sales.db") + `
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Server.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, []string{"https://ops.example.com"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, BackendSQLite, cfg.Backend.Type)
	assert.Equal(t, filepath.Join(dir, "sales.db"), cfg.Backend.SQLitePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOTELPRO_SERVER_ADDR", ":9999")
	t.Setenv("HOTELPRO_BACKEND_TYPE", "sheets")
	t.Setenv("HOTELPRO_SERVER_SESSION_TTL", "1h")

	v := viper.New()
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, BackendSheets, cfg.Backend.Type)
	assert.Equal(t, time.Hour, cfg.Server.SessionTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		values  map[string]any
		wantErr error
		name    string
	}{
		{
			name:    "unknown backend",
			values:  map[string]any{"backend.type": "csv"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "empty xlsx path",
			values:  map[string]any{"backend.xlsx_path": ""},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "negative ttl",
			values:  map[string]any{"server.session_ttl": -time.Minute},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("HOTELPRO_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "hotel_data.xlsx", want: "hotel_data.xlsx"},
		{name: "home", in: "~", want: home},
		{name: "home relative", in: "~/sales/hotel.xlsx", want: filepath.Join(home, "sales", "hotel.xlsx")},
		{name: "env var", in: "$HOTELPRO_TEST_DIR/hotel.db", want: "/srv/data/hotel.db"},
		{name: "tilde in the middle", in: "a/~/b", want: "a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
