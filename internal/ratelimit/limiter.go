// Package ratelimit provides token-bucket rate limiters and per-client request budgets.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter keeps one token bucket per client (API user or remote
// address), created on first use.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewClientLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (cl *ClientLimiter) get(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	l, ok := cl.limiters[client]
	if !ok {
		l = rate.NewLimiter(cl.rps, cl.burst)
		cl.limiters[client] = l
	}
	return l
}

// Allow reports whether client may make a request now.
func (cl *ClientLimiter) Allow(client string) bool {
	return cl.get(client).Allow()
}

// Wait blocks until client has a token, or ctx is cancelled.
func (cl *ClientLimiter) Wait(ctx context.Context, client string) error {
	if err := cl.get(client).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", client, err)
	}
	return nil
}

// ServiceRates configures per-service request rates (requests per second)
// for outbound AWS calls.
type ServiceRates struct {
	CloudWatch float64
	STS        float64
}

// DefaultServiceRates returns conservative AWS rate limits.
func DefaultServiceRates() ServiceRates {
	return ServiceRates{
		CloudWatch: 20,
		STS:        10,
	}
}

// ServiceLimiter rate-limits AWS API calls per service using token buckets.
type ServiceLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewServiceLimiter creates a limiter with the given per-service rates.
func NewServiceLimiter(rates ServiceRates) *ServiceLimiter {
	limiters := map[string]*rate.Limiter{
		"CloudWatch": rate.NewLimiter(rate.Limit(rates.CloudWatch), burstFor(rates.CloudWatch)),
		"STS":        rate.NewLimiter(rate.Limit(rates.STS), burstFor(rates.STS)),
	}
	return &ServiceLimiter{limiters: limiters}
}

func burstFor(rps float64) int {
	if rps < 1 {
		return 1
	}
	return int(rps)
}

// Wait blocks until a token is available for the named service, or ctx is cancelled.
func (sl *ServiceLimiter) Wait(ctx context.Context, service string) error {
	sl.mu.RLock()
	limiter, ok := sl.limiters[service]
	sl.mu.RUnlock()
	if !ok {
		return nil // unknown service = no limit
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", service, err)
	}
	return nil
}
