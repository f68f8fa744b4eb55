// Package workflows holds the Temporal workflow definitions.
package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/temporal/activities"
)

// QueryNameState is the Temporal Query handler name for run progress.
const QueryNameState = "state"

// DefaultBatchSize is the number of lines handed to one CompareBatch call.
const DefaultBatchSize = 50

// Phase of a regression run.
type Phase string

const (
	PhaseComparing  Phase = "comparing"
	PhasePublishing Phase = "publishing"
	PhaseCompleted  Phase = "completed"
)

// RegressionInput configures one baseline/candidate regression run.
type RegressionInput struct {
	Lines     []string         `json:"lines"`
	Baseline  g2p.EngineConfig `json:"baseline"`
	Candidate g2p.EngineConfig `json:"candidate"`
	BatchSize int              `json:"batch_size,omitempty"`
	// PublishQueue routes PublishSummary to a separate task queue. Empty
	// keeps it on the workflow's queue.
	PublishQueue string `json:"publish_queue,omitempty"`
}

// RegressionResult is both the workflow result and the answer to the state
// query while the run is in flight.
type RegressionResult struct {
	Phase      Phase          `json:"phase"`
	LinesTotal int            `json:"lines_total"`
	LinesDone  int            `json:"lines_done"`
	Report     compare.Report `json:"report"`
	Published  bool           `json:"published"`
}

// RegressionWorkflow compares two engines over the input lines in batches,
// then publishes the summary. A failed batch fails the run; a failed publish
// is logged and the run still completes.
func RegressionWorkflow(ctx workflow.Context, input RegressionInput) (RegressionResult, error) {
	logger := workflow.GetLogger(ctx)

	lines := compare.NormalizeLines(input.Lines)
	size := input.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	result := RegressionResult{
		Phase:      PhaseComparing,
		LinesTotal: len(lines),
		Report: compare.Report{
			Outcomes: []domain.Outcome{},
			Summary:  domain.Summarize(nil),
		},
	}

	if err := workflow.SetQueryHandler(ctx, QueryNameState, func() (RegressionResult, error) {
		return result, nil
	}); err != nil {
		return result, fmt.Errorf("register state query: %w", err)
	}

	actCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))

		var out activities.CompareBatchOutput
		err := workflow.ExecuteActivity(actCtx, "CompareBatch", activities.CompareBatchInput{
			Lines:     lines[start:end],
			FirstLine: start + 1,
			Baseline:  input.Baseline,
			Candidate: input.Candidate,
		}).Get(ctx, &out)
		if err != nil {
			return result, fmt.Errorf("compare lines %d-%d: %w", start+1, end, err)
		}

		result.Report.Outcomes = append(result.Report.Outcomes, out.Outcomes...)
		result.LinesDone = len(result.Report.Outcomes)
		result.Report.Summary = domain.Summarize(result.Report.Outcomes)

		logger.Info("batch compared",
			"lines_done", result.LinesDone,
			"lines_total", result.LinesTotal,
			"differences", result.Report.Summary.Differences,
		)
	}

	result.Phase = PhasePublishing
	pubOpts := workflow.ActivityOptions{
		TaskQueue:           input.PublishQueue,
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	var pubOut activities.PublishSummaryOutput
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, pubOpts), "PublishSummary", activities.PublishSummaryInput{
		Baseline:  input.Baseline.Backend,
		Candidate: input.Candidate.Backend,
		Summary:   result.Report.Summary,
	}).Get(ctx, &pubOut)
	if err != nil {
		logger.Warn("publish summary failed", "error", err)
	} else {
		result.Published = pubOut.Published
	}

	result.Phase = PhaseCompleted
	logger.Info("regression complete",
		"lines_tested", result.Report.Summary.LinesTested,
		"differences", result.Report.Summary.Differences,
		"errors", result.Report.Summary.Errors,
		"all_match", result.Report.Summary.AllMatch,
	)
	return result, nil
}
