package pressroom

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.setDefaults()

	assert.Equal(t, "Pressroom", cfg.Name)
	assert.Equal(t, ":1337", cfg.Addr)
	assert.Equal(t, "data/pressroom.db", cfg.DatabasePath)
	assert.Equal(t, content.IncrementAtomic, cfg.ViewIncrement)
	assert.Equal(t, 5*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, 20, cfg.FeedSize)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PRESSROOM_ADDR", ":9000")
	t.Setenv("VIEW_INCREMENT", "snapshot")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("FEED_CACHE_TTL", "30s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, content.IncrementSnapshot, cfg.ViewIncrement)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRESSROOM_NAME=File Press\nFEED_SIZE=5\n"), 0o600))
	t.Setenv("PRESSROOM_NAME", "")
	t.Setenv("FEED_SIZE", "")
	os.Unsetenv("PRESSROOM_NAME")
	os.Unsetenv("FEED_SIZE")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "File Press", cfg.Name)
	assert.Equal(t, 5, cfg.FeedSize)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("VIEW_INCREMENT", "eventual")
	_, err := LoadConfig(missing)
	assert.Error(t, err)

	t.Setenv("VIEW_INCREMENT", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err = LoadConfig(missing)
	assert.Error(t, err)
}
