package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "SECRET_KEY", "DEBUG", "ACTIONS_PER_PAGE", "SESSION_TTL_HOURS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "larsbees.db", cfg.SQLitePath())
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.InsecureSecret())
	assert.Equal(t, 50, cfg.ActionsPerPage)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RememberTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "/var/lib/larsbees/bees.db")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DEBUG", "false")
	t.Setenv("ACTIONS_PER_PAGE", "abc")
	t.Setenv("SESSION_TTL_HOURS", "8")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/var/lib/larsbees/bees.db", cfg.SQLitePath())
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.InsecureSecret())
	assert.Equal(t, 50, cfg.ActionsPerPage)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nPORT=7070\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9000", cfg.Port, "the process environment wins")
}

func TestLoadReportsUnreadableEnvFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
