package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5030", cfg.HTTPAddr)
	assert.Equal(t, 15, cfg.Analysis.TopWords)
	assert.Equal(t, 10, cfg.Analysis.TopEmojis)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
	assert.True(t, cfg.Index.Enabled)
	assert.False(t, cfg.Watch.Enabled)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load("/nonexistent/instalens.yaml")
	assert.Error(t, err)
}

func TestValidateCacheBackend(t *testing.T) {
	cfg := &Config{Cache: CacheConfig{Backend: "redis"}}
	assert.Error(t, cfg.Validate())

	cfg.Cache.Backend = "sqlite"
	assert.NoError(t, cfg.Validate())
}

func TestValidateWatchDir(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Enabled: true}}
	assert.Error(t, cfg.Validate())

	cfg.Watch.Dir = "/exports"
	assert.NoError(t, cfg.Validate())
}

func TestCacheTTLZero(t *testing.T) {
	c := CacheConfig{}
	assert.Equal(t, time.Duration(0), c.TTL())
}
