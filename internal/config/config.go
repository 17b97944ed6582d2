package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// OpenWeatherAPIKey authorizes the current-conditions provider. Required
	// for the catalogue, named-city and pinned-refresh paths.
	OpenWeatherAPIKey string

	// Language is passed through to the upstream APIs.
	Language string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// RefreshInterval controls how often pinned cities are re-fetched.
	RefreshInterval time.Duration

	// DataDir holds the pin file and the image cache directory.
	DataDir string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.Language = getenvDefault("WEATHER_LANGUAGE", "ru")
	cfg.Port = getenvDefault("PORT", "8080")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.DataDir = os.Getenv("DATA_DIR")
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	return cfg, nil
}

// PinFilePath is where the pinned-city document lives.
func (c *AppConfig) PinFilePath() string {
	return filepath.Join(c.DataDir, "weatherdata.json")
}

// ImageCacheDir is where condition imagery is cached.
func (c *AppConfig) ImageCacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// defaultDataDir picks a platform application-data directory once; the
// current directory is the fallback when the platform offers none.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "sunday")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
