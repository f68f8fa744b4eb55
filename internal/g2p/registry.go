package g2p

import (
	"context"
	"sync"
)

// Registry hands out engines, building each distinct configuration once.
// Long-lived processes (API, MCP server, worker) share one Registry so the
// dictionaries are loaded a single time.
type Registry struct {
	opts []Option

	mu      sync.Mutex
	engines map[EngineConfig]*Engine
	build   func(context.Context, EngineConfig, ...Option) (*Engine, error)
}

func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:    opts,
		engines: make(map[EngineConfig]*Engine),
		build:   New,
	}
}

// Get returns the engine for cfg, building it on first use. Concurrent calls
// for an unbuilt configuration serialize on the registry lock.
func (r *Registry) Get(ctx context.Context, cfg EngineConfig) (Phonemizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[cfg]; ok {
		return e, nil
	}
	e, err := r.build(ctx, cfg, r.opts...)
	if err != nil {
		return nil, err
	}
	r.engines[cfg] = e
	return e, nil
}

// Pair returns the baseline and candidate engines.
func (r *Registry) Pair(ctx context.Context, baseline, candidate EngineConfig) (Phonemizer, Phonemizer, error) {
	b, err := r.Get(ctx, baseline)
	if err != nil {
		return nil, nil, err
	}
	c, err := r.Get(ctx, candidate)
	if err != nil {
		return nil, nil, err
	}
	return b, c, nil
}

// Len reports how many engines have been built.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
