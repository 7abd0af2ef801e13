package cache

import (
	"context"
	"errors"
	"time"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
)

// backoff is a bounded exponential retry schedule.
type backoff struct {
	attempts int
	first    time.Duration
}

// connectBackoff is used while a backend answers its first ping. Servers
// started alongside the service are often a few hundred milliseconds late.
var connectBackoff = backoff{attempts: 3, first: 500 * time.Millisecond}

// waitReady calls ping until it succeeds, doubling the pause between
// attempts. Context errors stop the loop at once. When every attempt fails
// the last failure is returned as BACKEND_UNAVAILABLE.
func (b backoff) waitReady(ctx context.Context, backend string, ping func(context.Context) error) error {
	pause := b.first
	var last error
	for n := 1; ; n++ {
		last = ping(ctx)
		switch {
		case last == nil:
			return nil
		case errors.Is(last, context.Canceled), errors.Is(last, context.DeadlineExceeded):
			return last
		case n >= b.attempts:
			return nlerrors.Wrap(nlerrors.ErrCodeBackendUnavailable, last,
				"%s unreachable after %d attempts", backend, b.attempts)
		}

		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		pause *= 2
	}
}
