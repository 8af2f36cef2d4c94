package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, 5*time.Minute, cfg.SummaryCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("SUMMARY_CACHE_TTL", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppAddr)
	assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestTestModeFlagFollowsEnvironment(t *testing.T) {
	t.Setenv("CAIXA_TEST_MODE", "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	t.Setenv("CAIXA_TEST_MODE", "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}
