package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowReturnsCurrentUnixMillis(t *testing.T) {
	c := New()
	before := time.Now().UnixMilli()
	got := c.Now()
	after := time.Now().UnixMilli()
	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestSleepReturnsAfterDuration(t *testing.T) {
	c := New()
	start := time.Now()
	c.Sleep(context.Background(), 20)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestSleepReturnsEarlyOnContextCancellation(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	c.Sleep(ctx, 5000)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
