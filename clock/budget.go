// Package clock provides the wall-clock budget a move decision runs
// under. A Budget is a fixed deadline; every query samples the clock
// again, so "time remaining" never goes stale inside a deep recursion.
package clock

import "time"

// Budget is the wall-clock allowance for a single move decision.
type Budget struct {
	deadline time.Time
}

// NewBudget starts a budget of the given length, counting from now.
func NewBudget(limit time.Duration) *Budget {
	return &Budget{deadline: time.Now().Add(limit)}
}

// Until wraps an absolute deadline.
func Until(deadline time.Time) *Budget {
	return &Budget{deadline: deadline}
}

// Deadline returns when the budget expires.
func (b *Budget) Deadline() time.Time { return b.deadline }

// Remaining is the time left before expiry, negative once past it.
func (b *Budget) Remaining() time.Duration { return time.Until(b.deadline) }

// Expired reports whether no more than margin remains. Searches keep
// their safety margin on the clock so they can unwind and still answer
// in time.
func (b *Budget) Expired(margin time.Duration) bool {
	return b.Remaining() <= margin
}
