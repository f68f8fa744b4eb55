package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrBudgetExceeded = errors.New("request budget exceeded")

// RequestBudget tracks per-client call counts for an operation within fixed
// time windows.
type RequestBudget struct {
	mu     sync.Mutex
	counts map[string]*windowCounter

	maxPerWindow int
	windowSize   time.Duration
	now          func() time.Time
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

// NewRequestBudget creates a budget limiter.
// maxPerWindow limits calls per (client, operation) within windowSize.
func NewRequestBudget(maxPerWindow int, windowSize time.Duration) *RequestBudget {
	return &RequestBudget{
		counts:       make(map[string]*windowCounter),
		maxPerWindow: maxPerWindow,
		windowSize:   windowSize,
		now:          time.Now,
	}
}

func budgetKey(client, op string) string {
	return client + "|" + op
}

// Check returns an error if the client has exhausted its budget for op.
func (b *RequestBudget) Check(client, op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.check(budgetKey(client, op), client, op)
}

func (b *RequestBudget) check(key, client, op string) error {
	wc, ok := b.counts[key]
	if !ok || b.now().After(wc.windowEnd) {
		return nil // no window or expired window
	}
	if wc.count >= b.maxPerWindow {
		return fmt.Errorf("%w: client %s operation %s (%d/%d in window)",
			ErrBudgetExceeded, client, op, wc.count, b.maxPerWindow)
	}
	return nil
}

// Record records a call by client for op.
func (b *RequestBudget) Record(client, op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(budgetKey(client, op))
}

func (b *RequestBudget) record(key string) {
	wc, ok := b.counts[key]
	if !ok || b.now().After(wc.windowEnd) {
		b.counts[key] = &windowCounter{
			count:     1,
			windowEnd: b.now().Add(b.windowSize),
		}
		return
	}
	wc.count++
}

// Spend checks and records in one step.
func (b *RequestBudget) Spend(client, op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := budgetKey(client, op)
	if err := b.check(key, client, op); err != nil {
		return err
	}
	b.record(key)
	return nil
}
