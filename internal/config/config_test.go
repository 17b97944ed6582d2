package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "ru", cfg.Language)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidDurations(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}

func TestDerivedPaths(t *testing.T) {
	cfg := &AppConfig{DataDir: "/var/lib/sunday"}

	assert.Equal(t, filepath.Join("/var/lib/sunday", "weatherdata.json"), cfg.PinFilePath())
	assert.Equal(t, filepath.Join("/var/lib/sunday", "cache"), cfg.ImageCacheDir())
}
