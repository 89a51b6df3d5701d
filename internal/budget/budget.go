// Package budget bounds how many times the trainer retries or restarts
// after a failed remote call.
package budget

import "fmt"

// Scope says which level of the flow a budget protects.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
	ScopePost   Scope = "post"
)

// Role says what a budget pays for.
type Role string

const (
	RoleRetry   Role = "retry"
	RoleRestart Role = "restart"
)

// Budget is a bounded counter. Remaining never goes below zero or above
// the initial value.
type Budget struct {
	scope     Scope
	role      Role
	initial   int
	remaining int
}

// New creates a full budget of n units. Negative sizes are treated as 0.
func New(scope Scope, role Role, n int) *Budget {
	if n < 0 {
		n = 0
	}
	return &Budget{scope: scope, role: role, initial: n, remaining: n}
}

// HasBudget reports whether at least one unit is left.
func (b *Budget) HasBudget() bool { return b.remaining > 0 }

// Consume spends one unit. It returns false, leaving the budget unchanged,
// when nothing is left.
func (b *Budget) Consume() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining returns the units left.
func (b *Budget) Remaining() int { return b.remaining }

// Reset restores the initial value.
func (b *Budget) Reset() { b.remaining = b.initial }

func (b *Budget) Scope() Scope { return b.scope }
func (b *Budget) Role() Role   { return b.role }

func (b *Budget) String() string {
	return fmt.Sprintf("%s %s budget %d/%d", b.scope, b.role, b.remaining, b.initial)
}
