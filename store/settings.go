package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vcrobe/nojs-render/console"
)

// Settings bounds collaborator calls.
type Settings struct {
	// Timeout applies to each attempt.
	Timeout time.Duration
	// Retries is the number of attempts after the first.
	Retries int
	// Backoff is the wait before the first retry; it doubles per attempt up
	// to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Timeout:    10 * time.Second,
		Retries:    2,
		Backoff:    250 * time.Millisecond,
		MaxBackoff: 4 * time.Second,
	}
}

// retry runs fn with a per-attempt timeout until it succeeds, fails
// permanently, the attempts are exhausted or ctx is done.
func retry[T any](ctx context.Context, st Settings, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	backoff := st.Backoff
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if st.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, st.Timeout)
		}
		v, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return v, nil
		}
		if IsPermanent(err) || attempt >= st.Retries || ctx.Err() != nil {
			return zero, fmt.Errorf("%s after %d attempt(s): %w", op, attempt+1, err)
		}

		console.Warn("[store]", op, "attempt", attempt+1, "failed, retrying in", backoff, ":", err)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}
		backoff *= 2
		if st.MaxBackoff > 0 && backoff > st.MaxBackoff {
			backoff = st.MaxBackoff
		}
	}
}
