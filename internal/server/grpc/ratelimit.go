package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc/peer"
)

// idleLimiterTTL is how long an unused per-peer limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// peerLimiter hands out one token bucket per peer address.
type peerLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newPeerLimiter(rps float64, burst int) *peerLimiter {
	return &peerLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether key may make another request now. A non-positive
// rate disables limiting.
func (pl *peerLimiter) Allow(key string) bool {
	if pl == nil || pl.rps <= 0 {
		return true
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()

	now := pl.now()
	if now.Sub(pl.lastSweep) > idleLimiterTTL {
		pl.sweep(now)
	}

	e, ok := pl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(pl.rps, pl.burst)}
		pl.limiters[key] = e
	}
	e.lastUsed = now

	return e.limiter.AllowN(now, 1)
}

func (pl *peerLimiter) sweep(now time.Time) {
	cutoff := now.Add(-idleLimiterTTL)
	for k, e := range pl.limiters {
		if e.lastUsed.Before(cutoff) {
			delete(pl.limiters, k)
		}
	}
	pl.lastSweep = now
}

// peerKey identifies the caller by host, so reconnecting from a new port
// does not reset the bucket.
func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
