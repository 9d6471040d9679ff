package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "StudentsDB", cfg.Mongo.StudentsDB)
	assert.Equal(t, "HallTicketsDB", cfg.Mongo.HallTicketsDB)
	assert.Equal(t, 2*time.Hour, cfg.Session.Expiration)
	assert.Equal(t, 15*time.Minute, cfg.Downloads.SignedURLTTL)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://portal.example.edu, ,https://admin.example.edu")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Session.Expiration)
	assert.Equal(t, []string{"https://portal.example.edu", "https://admin.example.edu"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{Timezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&Config{Timezone: "Mars/Olympus"}).Location())
	assert.Equal(t, "UTC", (&Config{Timezone: "UTC"}).Location().String())
}

func TestLoadSecretsOutsideProduction(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DOWNLOAD_LINK_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devSessionSecret, cfg.Session.Secret)
	assert.Equal(t, devSessionSecret, cfg.Downloads.SignedURLSecret)
}

func TestLoadProductionLeavesSessionSecretUnset(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", EnvProduction)
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DOWNLOAD_LINK_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Session.Secret)
	assert.Empty(t, cfg.Downloads.SignedURLSecret)
}

func TestLoadDownloadSecretFallsBackToSessionSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", EnvProduction)
	t.Setenv("SESSION_SECRET", "prod-session-key")
	t.Setenv("DOWNLOAD_LINK_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-session-key", cfg.Session.Secret)
	assert.Equal(t, "prod-session-key", cfg.Downloads.SignedURLSecret)

	t.Setenv("DOWNLOAD_LINK_SECRET", "link-key")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "link-key", cfg.Downloads.SignedURLSecret)
}
