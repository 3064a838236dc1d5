// Package config collects the environment configuration shared by the
// server, worker, and scheduler binaries.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	RedisAddr   string
	APIKey      string

	// RefreshInterval gates how often a channel may be re-polled.
	RefreshInterval time.Duration
	// VideosPerFetch is how many recent uploads one sync pulls.
	VideosPerFetch int
	// VideosPerPage sizes feed pages and the assembler's scan pages.
	VideosPerPage int
	// FilterCacheTTL bounds reuse of compiled filter rules.
	FilterCacheTTL time.Duration

	// Debug disables the background sweeps; sync paths are only invoked
	// on demand.
	Debug bool

	Port          string
	BaseURL       string
	SessionSecret string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getenv("REDIS_ADDR", "127.0.0.1:6379"),
		APIKey:          os.Getenv("YOUTUBE_API_KEY"),
		RefreshInterval: time.Duration(getenvInt("REFRESH_INTERVAL", 3600)) * time.Second,
		VideosPerFetch:  getenvInt("VIDEOS_PER_FETCH", 20),
		VideosPerPage:   getenvInt("VIDEOS_PER_PAGE", 100),
		FilterCacheTTL:  time.Duration(getenvInt("FILTER_CACHE_TTL", 10)) * time.Second,
		Debug:           os.Getenv("DEBUG") != "",
		Port:            getenv("PORT", "8080"),
		BaseURL:         getenv("BASE_URL", "http://localhost:8080"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
