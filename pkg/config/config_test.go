package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, ".eduterm/session.json", cfg.Session.File)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, 8000, cfg.Stub.Port)
	require.Equal(t, 24*time.Hour, cfg.Stub.Expiration)
	require.Equal(t, 7*24*time.Hour, cfg.Stub.RefreshExpiration)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// A directory with no .env must still yield the defaults.
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	require.Equal(t, 8000, cfg.Stub.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:9000/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("JWT_EXPIRATION", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://backend:9000", cfg.API.BaseURL, "trailing slash is trimmed")
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, time.Hour, cfg.Stub.Expiration)
}

func TestParseDurationFallback(t *testing.T) {
	require.Equal(t, time.Minute, parseDuration("", time.Minute))
	require.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	require.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
