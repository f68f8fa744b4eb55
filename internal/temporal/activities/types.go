package activities

import (
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
)

// CompareBatchInput is one slice of a regression run. FirstLine is the
// 1-based number of Lines[0] within the whole run.
type CompareBatchInput struct {
	Lines     []string         `json:"lines"`
	FirstLine int              `json:"first_line"`
	Baseline  g2p.EngineConfig `json:"baseline"`
	Candidate g2p.EngineConfig `json:"candidate"`
}

type CompareBatchOutput struct {
	Outcomes []domain.Outcome `json:"outcomes"`
}

// PublishSummaryInput carries a finished run's totals to the metrics sink.
type PublishSummaryInput struct {
	Baseline  domain.Backend `json:"baseline"`
	Candidate domain.Backend `json:"candidate"`
	Summary   domain.Summary `json:"summary"`
}

type PublishSummaryOutput struct {
	Published bool `json:"published"`
}
