package trending

import (
	"context"
	"sync"
	"sync/atomic"
)

// RateLimitGuard is a one-way switch scoped to a single aggregation batch.
// Once tripped it stays tripped, and the optional cancel func aborts in-flight fetches.
type RateLimitGuard struct {
	tripped atomic.Bool
	once    sync.Once
	cancel  context.CancelFunc
}

// NewRateLimitGuard creates an untripped guard. cancel may be nil.
func NewRateLimitGuard(cancel context.CancelFunc) *RateLimitGuard {
	return &RateLimitGuard{cancel: cancel}
}

// Trip records a rate-limit observation
func (g *RateLimitGuard) Trip() {
	g.once.Do(func() {
		g.tripped.Store(true)
		if g.cancel != nil {
			g.cancel()
		}
	})
}

// ShouldSkip reports whether remaining work in the batch must not call upstream
func (g *RateLimitGuard) ShouldSkip() bool {
	return g.tripped.Load()
}
