package g2p

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/observability"
)

// Engine is a configured backend with tracing, metrics and logging around
// every call. It is safe for concurrent use.
type Engine struct {
	cfg     EngineConfig
	inner   Phonemizer
	tracer  trace.Tracer
	metrics *observability.Metrics
	logger  *slog.Logger
}

func newEngine(cfg EngineConfig, inner Phonemizer, o options) *Engine {
	return &Engine{
		cfg:     cfg,
		inner:   inner,
		tracer:  otel.Tracer("jag2p/g2p"),
		metrics: o.metrics,
		logger:  o.logger,
	}
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() EngineConfig { return e.cfg }

func (e *Engine) Backend() domain.Backend { return e.cfg.Backend }

func (e *Engine) Phonemize(ctx context.Context, text string) (domain.Result, error) {
	ctx, span := e.tracer.Start(ctx, "g2p.Phonemize",
		trace.WithAttributes(
			attribute.String("g2p.backend", string(e.cfg.Backend)),
			attribute.Int("g2p.text_len", len(text)),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := e.inner.Phonemize(ctx, text)
	e.metrics.RecordPhonemize(ctx, string(e.cfg.Backend), time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("phonemize failed", "backend", e.cfg.Backend, "error", err)
		return domain.Result{}, fmt.Errorf("g2p %s: %w", e.cfg.Backend, err)
	}

	span.SetAttributes(attribute.Int("g2p.tokens", len(res.Tokens)))
	e.logger.Debug("phonemized", "backend", e.cfg.Backend, "tokens", len(res.Tokens))
	return res, nil
}

var _ Phonemizer = (*Engine)(nil)
