package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelay(t *testing.T) {
	start := time.Now()
	assert.NoError(t, Delay(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.NoError(t, Delay(context.Background(), 0))
}

func TestDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Delay(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Delay(ctx, 0), context.Canceled)
}
