// Package budget enforces the per-entity wall-clock allowance: a monotonic
// ledger consumed across pipeline stages, plus a deadline runner that can
// pre-emptively abort an in-flight stage.
package budget

import "time"

// Budget tracks one entity's traversal of the pipeline. Created when the
// entity starts, consumed monotonically, never replenished.
type Budget struct {
	total   time.Duration
	started time.Time
}

// New starts a budget of the given total allowance.
func New(total time.Duration) *Budget {
	return &Budget{total: total, started: time.Now()}
}

// Total returns the full allowance.
func (b *Budget) Total() time.Duration {
	return b.total
}

// Elapsed returns how much wall-clock time the entity has consumed.
func (b *Budget) Elapsed() time.Duration {
	return time.Since(b.started)
}

// Remaining returns the unspent allowance, clamped at zero.
func (b *Budget) Remaining() time.Duration {
	rem := b.total - b.Elapsed()
	if rem < 0 {
		return 0
	}
	return rem
}

// Exceeded reports whether the allowance is spent.
func (b *Budget) Exceeded() bool {
	return b.Elapsed() > b.total
}
