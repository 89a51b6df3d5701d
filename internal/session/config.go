package session

import (
	"os"
	"time"

	"github.com/abhisek/phonix/internal/budget"
	"github.com/abhisek/phonix/internal/question"
)

// Config holds the session pacing and budget sizes.
type Config struct {
	Budgets  budget.Limits
	Question question.Config

	// AutoLearnDelay is the pause before a first-time learner is taken
	// straight into a lesson. Default: 1.5s.
	AutoLearnDelay time.Duration
}

// DefaultConfig returns a Config with the standard values.
func DefaultConfig() Config {
	return Config{
		Budgets:        budget.DefaultLimits(),
		Question:       question.DefaultConfig(),
		AutoLearnDelay: 1500 * time.Millisecond,
	}
}

// ConfigFromEnv builds a Config from PHONIX_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Budgets = budget.LimitsFromEnv()

	envDuration("PHONIX_RESOLVE_DELAY", &cfg.Question.ResolveDelay)
	envDuration("PHONIX_HELP_SOLUTION_DELAY", &cfg.Question.HelpSolutionDelay)
	envDuration("PHONIX_RETRY_DELAY", &cfg.Question.RetryDelay)
	envDuration("PHONIX_AUTO_LEARN_DELAY", &cfg.AutoLearnDelay)

	return cfg
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			*dst = d
		}
	}
}
