package rate_limiter

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingHost is returned for URLs that have nothing to key a limiter on.
var ErrMissingHost = errors.New("missing host in URL")

// HostRateLimiter spaces out requests to the same upstream host.
// A zero interval disables limiting.
type HostRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	interval time.Duration
}

func NewHostRateLimiter(interval time.Duration) *HostRateLimiter {
	return &HostRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Enabled reports whether Wait can ever block.
func (h *HostRateLimiter) Enabled() bool {
	return h != nil && h.interval > 0
}

// WaitForURL blocks until a request to u's host is allowed or ctx is done.
func (h *HostRateLimiter) WaitForURL(ctx context.Context, u *url.URL) error {
	if u == nil || u.Host == "" {
		return ErrMissingHost
	}
	return h.Wait(ctx, u.Host)
}

// Wait blocks until a request to host is allowed or ctx is done.
func (h *HostRateLimiter) Wait(ctx context.Context, host string) error {
	if !h.Enabled() {
		return ctx.Err()
	}
	if host == "" {
		return ErrMissingHost
	}
	return h.getLimiterForHost(strings.ToLower(host)).Wait(ctx)
}

// Hosts returns how many hosts currently have a limiter.
func (h *HostRateLimiter) Hosts() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.limiters)
}

// Prune drops limiters that are back to a full burst, so idle hosts do not
// accumulate forever.
func (h *HostRateLimiter) Prune() int {
	if !h.Enabled() {
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	removed := 0
	for host, limiter := range h.limiters {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(h.limiters, host)
			removed++
		}
	}
	return removed
}

func (h *HostRateLimiter) getLimiterForHost(host string) *rate.Limiter {
	h.mu.RLock()
	limiter, exists := h.limiters[host]
	h.mu.RUnlock()

	if exists {
		return limiter
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Double-check pattern
	if limiter, exists := h.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(h.interval), 1)
	h.limiters[host] = limiter
	return limiter
}
