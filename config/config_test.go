package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayachat/maya-tui/client"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, client.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "neon", cfg.Theme)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 600*time.Millisecond, cfg.PacingMin)
	assert.Equal(t, 300*time.Millisecond, cfg.PacingJitter)
	assert.Equal(t, 3, cfg.GuestLimit)
	assert.False(t, cfg.Debug)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MAYA_BASE_URL", "http://10.0.0.2:9000")
	t.Setenv("MAYA_GUEST_LIMIT", "5")
	t.Setenv("MAYA_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:9000", cfg.BaseURL)
	assert.Equal(t, 5, cfg.GuestLimit)
	assert.True(t, cfg.Debug)
}
