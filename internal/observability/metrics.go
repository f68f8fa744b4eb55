package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OTel metric instruments for the G2P engines and the
// comparison harness.
type Metrics struct {
	PhonemizeCalls   metric.Int64Counter
	PhonemizeErrors  metric.Int64Counter
	PhonemizeLatency metric.Float64Histogram
	CompareOutcomes  metric.Int64Counter
	ActivityCalls    metric.Int64Counter
}

// NewMetrics creates the jag2p metric instruments on the global meter
// provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(otel.Meter("jag2p"))
}

// NewMetricsFrom creates the instruments on the given meter.
func NewMetricsFrom(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter("jag2p.phonemize.calls",
		metric.WithDescription("Number of phonemization calls"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("jag2p.phonemize.errors",
		metric.WithDescription("Number of failed phonemization calls"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("jag2p.phonemize.latency_seconds",
		metric.WithDescription("Phonemization latency"),
	)
	if err != nil {
		return nil, err
	}

	outcomes, err := meter.Int64Counter("jag2p.compare.outcomes",
		metric.WithDescription("Comparison outcomes by status"),
	)
	if err != nil {
		return nil, err
	}

	activityCalls, err := meter.Int64Counter("jag2p.activity.calls",
		metric.WithDescription("Number of activity invocations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PhonemizeCalls:   calls,
		PhonemizeErrors:  errs,
		PhonemizeLatency: latency,
		CompareOutcomes:  outcomes,
		ActivityCalls:    activityCalls,
	}, nil
}

// RecordPhonemize records one engine call. A nil Metrics is a no-op.
func (m *Metrics) RecordPhonemize(ctx context.Context, backend string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("backend", backend))
	m.PhonemizeCalls.Add(ctx, 1, attrs)
	m.PhonemizeLatency.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		m.PhonemizeErrors.Add(ctx, 1, attrs)
	}
}

// RecordOutcome records one comparison outcome.
func (m *Metrics) RecordOutcome(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.CompareOutcomes.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordActivity records an activity invocation.
func (m *Metrics) RecordActivity(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.ActivityCalls.Add(ctx, 1,
		metric.WithAttributes(attribute.String("activity", name)),
	)
}
