// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the auction service.
type Config struct {
	Port        int
	DatabaseURL string        // empty → in-memory store
	RedisURL    string        // empty → no cache
	CacheTTL    time.Duration // Redis entry lifetime
	SeedDemo    bool          // load demo data into an empty store
}

// Load reads the configuration from environment variables. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        8080,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		CacheTTL:    30 * time.Second,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
		}
		cfg.Port = port
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", ttl)
		}
		cfg.CacheTTL = ttl
	}

	if v := os.Getenv("SEED_DEMO"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
		}
		cfg.SeedDemo = seed
	}

	if cfg.RedisURL != "" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("REDIS_URL requires DATABASE_URL")
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
