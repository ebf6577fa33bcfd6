package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle key is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed is a token bucket per key (an IP address or a Discord user ID) that
// prunes stale entries inline.
type Keyed struct {
	keys map[string]*entry
	mu   sync.Mutex
	r    rate.Limit
	b    int
	now  func() time.Time
}

// New creates a Keyed limiter allowing r events per second with burst b.
func New(r rate.Limit, b int) *Keyed {
	return &Keyed{
		keys: make(map[string]*entry),
		r:    r,
		b:    b,
		now:  time.Now,
	}
}

// Every is a convenience for "one event per interval".
func Every(interval time.Duration, burst int) *Keyed {
	return New(rate.Every(interval), burst)
}

// WithClock replaces the time source; used by tests.
func (k *Keyed) WithClock(now func() time.Time) *Keyed {
	k.now = now
	return k
}

// Limiter returns the limiter for key, pruning stale entries when the map
// exceeds cleanupThreshold.
func (k *Keyed) Limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if len(k.keys) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for key, e := range k.keys {
			if e.lastSeen.Before(cutoff) {
				delete(k.keys, key)
			}
		}
	}

	e, exists := k.keys[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(k.r, k.b)}
		k.keys[key] = e
	}
	e.lastSeen = now

	return e.limiter
}

// Allow reports whether an event for key may happen now.
func (k *Keyed) Allow(key string) bool {
	return k.Limiter(key).AllowN(k.now(), 1)
}

// RetryAfter reports how long key must wait for its next token. Zero means an
// event is allowed now. No token is consumed.
func (k *Keyed) RetryAfter(key string) time.Duration {
	now := k.now()
	l := k.Limiter(key)
	if l.TokensAt(now) >= 1 {
		return 0
	}
	missing := 1 - l.TokensAt(now)
	return time.Duration(missing / float64(k.r) * float64(time.Second))
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.keys)
}
