package monitor

import (
	"context"
	"errors"
	"time"
)

var errNonPositiveInterval = errors.New("interval must be positive")

// Periodic runs fn once immediately and then once per interval until ctx is
// done. fn runs on the calling goroutine, so at most one call is in flight; a
// call that overruns the interval delays the next one instead of queueing.
func Periodic(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		return errNonPositiveInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fn(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}
