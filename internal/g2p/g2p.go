// Package g2p builds Japanese grapheme-to-phoneme engines behind a single
// Phonemizer interface.
package g2p

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jag2p/jag2p-go/internal/analyzer"
	"github.com/jag2p/jag2p-go/internal/assembler"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p/goruut"
	"github.com/jag2p/jag2p-go/internal/lexicon"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/phoneme"
	"github.com/jag2p/jag2p-go/internal/resolver"
)

var (
	ErrUnknownBackend   = errors.New("g2p: unknown backend")
	ErrUnknownInventory = errors.New("g2p: unknown inventory")
)

// Phonemizer converts text into phonemes and, optionally, tokens.
type Phonemizer interface {
	Phonemize(ctx context.Context, text string) (domain.Result, error)
}

// EngineConfig selects and tunes one engine.
type EngineConfig struct {
	Backend     domain.Backend   `json:"backend"`
	Inventory   domain.Inventory `json:"inventory,omitempty"`
	Devoice     bool             `json:"devoice,omitempty"`
	AccentMarks bool             `json:"accent_marks,omitempty"`
	Unknown     string           `json:"unknown,omitempty"`
	LexiconPath string           `json:"lexicon_path,omitempty"`
}

// Validate rejects unrecognized backends and inventories. An empty
// inventory means IPA.
func (c EngineConfig) Validate() error {
	if !c.Backend.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Inventory != "" && !c.Inventory.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownInventory, c.Inventory)
	}
	return nil
}

type options struct {
	logger   *slog.Logger
	metrics  *observability.Metrics
	analyzer analyzer.Analyzer
}

// Option customizes engine construction.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithAnalyzer replaces the dictionary-backed analyzer of the kagome
// backends.
func WithAnalyzer(a analyzer.Analyzer) Option {
	return func(o *options) { o.analyzer = a }
}

// New builds the engine cfg describes. Dictionaries and the user lexicon are
// loaded here, once.
func New(ctx context.Context, cfg EngineConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var inner Phonemizer
	switch cfg.Backend {
	case domain.BackendGoruut:
		inner = goruut.New()
	default:
		p, err := newPipeline(cfg, o.analyzer)
		if err != nil {
			return nil, fmt.Errorf("g2p: build %s: %w", cfg.Backend, err)
		}
		inner = p
	}

	o.logger.Debug("engine ready", "backend", cfg.Backend, "inventory", cfg.Inventory)
	return newEngine(cfg, inner, o), nil
}

// NewPair builds the baseline and candidate engines concurrently.
func NewPair(ctx context.Context, baseline, candidate EngineConfig, opts ...Option) (*Engine, *Engine, error) {
	var b, c *Engine
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b, err = New(gctx, baseline, opts...)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		c, err = New(gctx, candidate, opts...)
		if err != nil {
			return fmt.Errorf("candidate: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return b, c, nil
}

// pipeline is the four-stage kagome engine.
type pipeline struct {
	analyzer  analyzer.Analyzer
	resolver  *resolver.Resolver
	assembler *assembler.Assembler
}

func newPipeline(cfg EngineConfig, a analyzer.Analyzer) (*pipeline, error) {
	if a == nil {
		var err error
		switch cfg.Backend {
		case domain.BackendKagomeUni:
			a, err = analyzer.NewKagomeUni()
		default:
			a, err = analyzer.NewKagomeIPA()
		}
		if err != nil {
			return nil, err
		}
	}

	var lex *lexicon.Lexicon
	if cfg.LexiconPath != "" {
		var err error
		if lex, err = lexicon.LoadFile(cfg.LexiconPath); err != nil {
			return nil, err
		}
	}

	mapper := phoneme.New(phoneme.Options{
		Inventory:   cfg.Inventory,
		Devoice:     cfg.Devoice,
		AccentMarks: cfg.AccentMarks,
	})
	return &pipeline{
		analyzer:  a,
		resolver:  resolver.New(lex),
		assembler: assembler.New(mapper, cfg.Unknown),
	}, nil
}

func (p *pipeline) Phonemize(ctx context.Context, text string) (domain.Result, error) {
	morphs, err := p.analyzer.Analyze(ctx, text)
	if err != nil {
		return domain.Result{}, err
	}
	return p.assembler.Assemble(p.resolver.Resolve(morphs)), nil
}
