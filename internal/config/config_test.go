package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 5000\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "Asia/Shanghai", cfg.Market.Timezone)
	require.Equal(t, "09:25", cfg.Market.SessionOpen)
	require.Equal(t, "15:05", cfg.Market.CloseRefresh)
	require.Equal(t, 10, cfg.Market.RefreshIntervalMin)
	require.Equal(t, "20200101", cfg.Market.DefaultHistoryStart)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8088
log:
  level: debug
market:
  refresh_interval_min: 5
  provider_timeout_ms: 2000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8088, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 5, cfg.Market.RefreshIntervalMin)
	require.Equal(t, 2000, cfg.Market.ProviderTimeoutMs)
	// untouched keys keep defaults
	require.Equal(t, "09:25", cfg.Market.SessionOpen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 5000\n")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 5000\n")
	t.Setenv("PORT", "not-a-port")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
