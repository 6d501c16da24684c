// Package simulate holds the fixed delays that stand in for backend latency.
package simulate

import (
	"context"
	"time"
)

// Delay blocks for d or until ctx is done. A non-positive d returns at once.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
