package config

import (
	"os"
	"strconv"
)

// Config holds the service configuration
type Config struct {
	Port        string
	DBPath      string
	DatasetPath string
	JWTSecret   string
	AuthEnabled bool

	// Default grid dimension for new simulation runs
	GridSize int

	// Rate limiting
	RateLimit int // requests per minute per IP
}

// Load reads the configuration from the environment, applying defaults
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", ":8080"),
		DBPath:      getEnv("DB_PATH", "./data/traffic.db"),
		DatasetPath: getEnv("DATASET_PATH", "./data/Traffic.csv"),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		GridSize:    getEnvInt("GRID_SIZE", 4),
		RateLimit:   getEnvInt("RATE_LIMIT", 120),
	}

	cfg.AuthEnabled = getEnv("AUTH_ENABLED", "false") == "true"

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
