package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, uint32(5), cfg.Providers.BreakerFailures)
	assert.Equal(t, DefaultTMDBBaseURL, cfg.Providers.TMDB.BaseURL)
	assert.True(t, cfg.Providers.OpenLibrary.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Cleanup.Schedule)
	assert.True(t, cfg.Tasks.Enabled)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_MODE", "token")
	t.Setenv("PROVIDER_TIMEOUT", "750ms")
	t.Setenv("TMDB_API_KEY", "secret")
	t.Setenv("OPENLIBRARY_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "console")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, AuthModeToken, cfg.Auth.Mode)
	assert.Equal(t, 750*time.Millisecond, cfg.Providers.Timeout)
	assert.Equal(t, "secret", cfg.Providers.TMDB.APIKey)
	assert.False(t, cfg.Providers.OpenLibrary.Enabled)
	assert.Equal(t, "console", cfg.Log.Format)
}
