package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Scraper.MaxPages)
	assert.Equal(t, 1000, cfg.Scraper.MaxReviews)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scraper.PageDelay)
	assert.Equal(t, time.Minute, cfg.Jobs.PendingPollInterval)
	assert.Equal(t, "US", cfg.Upstream.Country)
	assert.Equal(t, 9300, cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("non-numeric max pages", func(t *testing.T) {
		t.Setenv("SCRAPER_MAX_PAGES", "lots")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero max pages fails validation", func(t *testing.T) {
		t.Setenv("SCRAPER_MAX_PAGES", "0")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SCRAPER_PAGE_DELAY", "soon")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestUpstreamConfig_HasCredentials(t *testing.T) {
	assert.False(t, UpstreamConfig{}.HasCredentials())
	assert.False(t, UpstreamConfig{Key: "k"}.HasCredentials())
	assert.True(t, UpstreamConfig{Key: "k", Host: "h"}.HasCredentials())
}
