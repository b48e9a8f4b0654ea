package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigReadsThroughViper(t *testing.T) {
	viper.Set("app_port", "9099")
	viper.Set("http_mode", "yes")
	viper.Set("cache_ttl_days", "3")
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9099", cfg.App.Port)
	assert.True(t, cfg.App.HTTPMode)
	assert.Equal(t, 3*24*time.Hour, cfg.Cache.TTL)
}

func TestLoadConfigFallsBackToProcessEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("BASE_URL", "http://media.local:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://media.local:9000", cfg.App.BaseURL)
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.App.HTTPMode)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Hour, cfg.Cache.SweepInterval)
	assert.Equal(t, "yt-dlp", cfg.YTDLP.BinaryPath)
}
