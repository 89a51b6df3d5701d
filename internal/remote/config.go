package remote

import (
	"os"
	"time"
)

// Config holds the scoring service client configuration.
type Config struct {
	// BaseURL is the root of the scoring service. Default: http://localhost:8000
	BaseURL string

	// Timeout bounds a single remote call. Default: 5s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 5 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("PHONIX_SERVER_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("PHONIX_REQUEST_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}
