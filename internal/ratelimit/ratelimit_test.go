package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyed_Allow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	k := Every(3*time.Second, 2).WithClock(func() time.Time { return now })

	assert.True(t, k.Allow("alice"))
	assert.True(t, k.Allow("alice"))
	assert.False(t, k.Allow("alice"), "burst exhausted")
	assert.True(t, k.Allow("bob"), "keys are independent")

	assert.InDelta(t, 3*time.Second, k.RetryAfter("alice"), float64(10*time.Millisecond))

	now = now.Add(3 * time.Second)
	assert.Equal(t, time.Duration(0), k.RetryAfter("alice"))
	assert.True(t, k.Allow("alice"))
}

func TestKeyed_PrunesIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	k := Every(time.Second, 1).WithClock(func() time.Time { return now })

	for i := 0; i <= cleanupThreshold; i++ {
		k.Allow(fmt.Sprintf("user-%d", i))
	}
	assert.Equal(t, cleanupThreshold+1, k.Len())

	now = now.Add(maxIdleAge + time.Minute)
	k.Allow("fresh")
	assert.Equal(t, 1, k.Len())
}
