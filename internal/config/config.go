// Package config loads the typed environment configuration from section 6.
// A .env file is loaded via godotenv at process start (see cmd/arenad),
// then read into a typed struct rather than scattering os.Getenv calls
// through the codebase.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the engine's full runtime configuration.
type Config struct {
	DatabaseURL string
	SecretKey   string

	OnlineWindow              time.Duration
	PresenceTouchMinInterval  time.Duration
}

// Load reads Config from the environment, applying section 6's defaults.
func Load() Config {
	return Config{
		DatabaseURL:              getString("DATABASE_URL", ""),
		SecretKey:                getString("SECRET_KEY", ""),
		OnlineWindow:             time.Duration(getInt("ONLINE_WINDOW_SECONDS", 25)) * time.Second,
		PresenceTouchMinInterval: time.Duration(getInt("PRESENCE_TOUCH_MIN_INTERVAL_SECONDS", 10)) * time.Second,
	}
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
