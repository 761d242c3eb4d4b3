package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultPort = "8080"

// LoadEnv reads an optional .env file into the process environment.
// A missing file is not an error; real environments set variables directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		GetLogger().Debug("no .env file found, using process environment")
	}
}

func Port() string {
	port := os.Getenv("PORT")
	if port == "" {
		return defaultPort
	}
	return port
}

func GinMode() string {
	return os.Getenv("GIN_MODE")
}

// AllowedOrigins returns the CORS origin whitelist from CORS_ORIGINS,
// comma-separated. Empty means allow all origins.
func AllowedOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
