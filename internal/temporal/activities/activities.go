package activities

import (
	"context"
	"fmt"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
)

// EngineSource hands out engine pairs. Implemented by g2p.Registry.
type EngineSource interface {
	Pair(ctx context.Context, baseline, candidate g2p.EngineConfig) (g2p.Phonemizer, g2p.Phonemizer, error)
}

// SummaryPublisher pushes run totals to an external metrics store.
// Implemented by cloudwatch.Publisher.
type SummaryPublisher interface {
	Publish(ctx context.Context, baseline, candidate domain.Backend, s domain.Summary) error
}

// Activities holds the dependencies for all Temporal activities.
// Each method is registered as a Temporal activity.
type Activities struct {
	Engines   EngineSource
	Publisher SummaryPublisher         // nil = publishing disabled
	Metrics   *observability.Metrics   // nil = no instrumentation
	Budget    *ratelimit.RequestBudget // nil = no budget enforcement
}

// checkBudget charges one call of activityName to the engine pair.
func (a *Activities) checkBudget(client, activityName string) error {
	if a.Budget == nil {
		return nil
	}
	return a.Budget.Spend(client, activityName)
}

func pairKey(baseline, candidate domain.Backend) string {
	return string(baseline) + ":" + string(candidate)
}

// CompareBatch runs both engines over one batch of lines.
func (a *Activities) CompareBatch(ctx context.Context, in CompareBatchInput) (CompareBatchOutput, error) {
	a.Metrics.RecordActivity(ctx, "CompareBatch")
	if a.Engines == nil {
		return CompareBatchOutput{}, fmt.Errorf("compare batch activity: no engine source configured")
	}
	if err := a.checkBudget(pairKey(in.Baseline.Backend, in.Candidate.Backend), "CompareBatch"); err != nil {
		return CompareBatchOutput{}, fmt.Errorf("compare batch activity: %w", err)
	}

	baseline, candidate, err := a.Engines.Pair(ctx, in.Baseline, in.Candidate)
	if err != nil {
		return CompareBatchOutput{}, fmt.Errorf("compare batch activity: %w", err)
	}

	first := in.FirstLine
	if first < 1 {
		first = 1
	}
	rep, err := compare.Run(ctx, baseline, candidate, in.Lines,
		compare.WithFirstLine(first),
		compare.WithMetrics(a.Metrics),
	)
	if err != nil {
		return CompareBatchOutput{}, fmt.Errorf("compare batch activity: %w", err)
	}
	return CompareBatchOutput{Outcomes: rep.Outcomes}, nil
}

// PublishSummary sends the run totals to the configured publisher. Without
// one it succeeds and reports nothing published.
func (a *Activities) PublishSummary(ctx context.Context, in PublishSummaryInput) (PublishSummaryOutput, error) {
	a.Metrics.RecordActivity(ctx, "PublishSummary")
	if a.Publisher == nil {
		return PublishSummaryOutput{}, nil
	}
	if err := a.Publisher.Publish(ctx, in.Baseline, in.Candidate, in.Summary); err != nil {
		return PublishSummaryOutput{}, fmt.Errorf("publish summary activity: %w", err)
	}
	return PublishSummaryOutput{Published: true}, nil
}
