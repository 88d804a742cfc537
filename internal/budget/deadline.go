package budget

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
)

// Mode selects how a stage deadline is enforced.
type Mode string

const (
	// ModeHard pre-emptively aborts an in-flight stage when its deadline
	// fires. The stage runs on its own goroutine against a deadline
	// context; the caller gets ErrDeadlineExceeded and the abandoned
	// call's partial result is discarded.
	ModeHard Mode = "hard"

	// ModeSoft never interrupts a stage. The call runs inline without a
	// deadline; the orchestrator compares elapsed time at stage
	// boundaries and treats overrun as a skip.
	ModeSoft Mode = "soft"
)

// ErrDeadlineExceeded signals that a stage was aborted by its deadline.
var ErrDeadlineExceeded = eris.New("budget: deadline exceeded")

// RunWithDeadline invokes fn under the given stage allowance.
//
// In hard mode fn runs on its own goroutine with a deadline context and is
// raced against the timer. When the deadline fires the context is
// cancelled, aborting any context-aware network call inside fn, and
// ErrDeadlineExceeded is returned whether or not fn has unwound. The
// result channel is buffered so the abandoned goroutine never leaks on
// send.
//
// In soft mode fn runs inline with the parent context untouched; it cannot
// be pre-empted and its result is always returned.
func RunWithDeadline[T any](ctx context.Context, mode Mode, allowance time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if mode != ModeHard {
		return fn(ctx)
	}

	var zero T

	stageCtx, cancel := context.WithTimeout(ctx, allowance)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	ch := make(chan outcome, 1)

	go func() {
		val, err := fn(stageCtx)
		ch <- outcome{val: val, err: err}
	}()

	select {
	case out := <-ch:
		// A context-aware fn may unwind with the deadline context's error
		// before the timer branch is chosen. That is still a stage timeout.
		if out.err != nil && ctx.Err() == nil && errors.Is(out.err, context.DeadlineExceeded) {
			return zero, ErrDeadlineExceeded
		}
		return out.val, out.err
	case <-stageCtx.Done():
		if ctx.Err() != nil {
			return zero, eris.Wrap(ctx.Err(), "budget: run cancelled")
		}
		return zero, ErrDeadlineExceeded
	}
}
