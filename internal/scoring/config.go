package scoring

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the scoring service configuration.
type Config struct {
	// Addr is the listen address. Default: ":8000".
	Addr string

	// ProgressPath is the learner progress file.
	ProgressPath string

	// CatalogPath overrides the built-in catalog when set.
	CatalogPath string

	// AudioBaseURL prefixes phoneme audio names. Audio URLs are omitted
	// when empty.
	AudioBaseURL string

	// RedisAddr selects the Redis idempotency store when set.
	RedisAddr     string
	RedisPassword string

	// IdempotencyTTL is how long check responses are replayed.
	IdempotencyTTL time.Duration

	// RateLimit is the sustained requests per second per client; 0 disables.
	RateLimit float64
	RateBurst int

	// SpellingPerSet and HomophonesPerSet cap the size of a learn set.
	SpellingPerSet   int
	HomophonesPerSet int
	// ReviewPerPhoneme is how many items each covered phoneme contributes
	// to a review.
	ReviewPerPhoneme int

	// Seed makes question selection deterministic when non-zero.
	Seed uint64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:             ":8000",
		ProgressPath:     filepath.Join(".", "progress.json"),
		IdempotencyTTL:   6000 * time.Second,
		RateLimit:        20,
		RateBurst:        40,
		SpellingPerSet:   5,
		HomophonesPerSet: 5,
		ReviewPerPhoneme: 2,
	}
}

// ConfigFromEnv builds a Config from PHONIX_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PHONIX_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PHONIX_PROGRESS_FILE"); v != "" {
		cfg.ProgressPath = v
	}
	if v := os.Getenv("PHONIX_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("PHONIX_AUDIO_BASE_URL"); v != "" {
		cfg.AudioBaseURL = v
	}
	if v := os.Getenv("PHONIX_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("PHONIX_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("PHONIX_IDEMPOTENCY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.IdempotencyTTL = d
		}
	}
	if v := os.Getenv("PHONIX_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.RateLimit = f
		}
	}
	if v := os.Getenv("PHONIX_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RateBurst = n
		}
	}

	return cfg
}
