package budget

import (
	"os"
	"strconv"
)

// Limits holds the initial size of every budget.
type Limits struct {
	GlobalRetry   int
	GlobalRestart int
	LocalRetry    int
	LocalRestart  int
	PostSubmit    int
}

// DefaultLimits returns the standard budget sizes.
func DefaultLimits() Limits {
	return Limits{
		GlobalRetry:   5,
		GlobalRestart: 2,
		LocalRetry:    5,
		LocalRestart:  2,
		PostSubmit:    5,
	}
}

// LimitsFromEnv overrides DefaultLimits from PHONIX_* variables.
func LimitsFromEnv() Limits {
	l := DefaultLimits()
	envInt("PHONIX_GLOBAL_RETRIES", &l.GlobalRetry)
	envInt("PHONIX_GLOBAL_RESTARTS", &l.GlobalRestart)
	envInt("PHONIX_LOCAL_RETRIES", &l.LocalRetry)
	envInt("PHONIX_LOCAL_RESTARTS", &l.LocalRestart)
	envInt("PHONIX_SUBMIT_RETRIES", &l.PostSubmit)
	return l
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}

// Decision is what a scope offers the user after a failure.
type Decision int

const (
	DecisionRetry Decision = iota
	DecisionRestart
	DecisionUnhealthy
)

func (d Decision) String() string {
	switch d {
	case DecisionRetry:
		return "retry"
	case DecisionRestart:
		return "restart"
	default:
		return "unhealthy"
	}
}

// Pair groups the retry and restart budgets of one scope.
type Pair struct {
	Retry   *Budget
	Restart *Budget

	resetRetryOnSuccess bool
}

// Decide spends from the budget matching the failure and returns the
// action to offer. An action is only offered when its unit was consumed.
func (p *Pair) Decide(retryable bool) Decision {
	if retryable {
		if p.Retry.Consume() {
			return DecisionRetry
		}
		return DecisionUnhealthy
	}
	if p.Restart.Consume() {
		return DecisionRestart
	}
	return DecisionUnhealthy
}

// Succeeded is called after a guarded action completes. The global scope
// refills its retry budget; other scopes are unchanged.
func (p *Pair) Succeeded() {
	if p.resetRetryOnSuccess {
		p.Retry.Reset()
	}
}

// Manager owns the global budgets and the local restart budget for a
// process, and hands out fresh local retry and post-submit budgets.
type Manager struct {
	limits       Limits
	global       *Pair
	localRestart *Budget
}

// NewManager creates a Manager with full global budgets.
func NewManager(l Limits) *Manager {
	return &Manager{
		limits: l,
		global: &Pair{
			Retry:               New(ScopeGlobal, RoleRetry, l.GlobalRetry),
			Restart:             New(ScopeGlobal, RoleRestart, l.GlobalRestart),
			resetRetryOnSuccess: true,
		},
		localRestart: New(ScopeLocal, RoleRestart, l.LocalRestart),
	}
}

// Global returns the process-wide budgets.
func (m *Manager) Global() *Pair { return m.global }

// NewLocal returns the budgets for one sub-flow: a fresh retry budget
// paired with the process-wide local restart budget, so restarting a
// session does not refill it.
func (m *Manager) NewLocal() *Pair {
	return &Pair{
		Retry:   New(ScopeLocal, RoleRetry, m.limits.LocalRetry),
		Restart: m.localRestart,
	}
}

// NewPost returns a fresh post-submit retry budget for one question.
func (m *Manager) NewPost() *Budget {
	return New(ScopePost, RoleRetry, m.limits.PostSubmit)
}
