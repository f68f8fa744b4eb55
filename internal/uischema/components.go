package uischema

import (
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

func progress(r workflows.RegressionResult) Component {
	pct := 100.0
	if r.LinesTotal > 0 {
		pct = float64(r.LinesDone) * 100 / float64(r.LinesTotal)
	}
	return Component{
		Type:       ComponentProgress,
		Title:      "Progress",
		Priority:   0,
		Visibility: VisibilityVisible,
		Data: map[string]any{
			"lines_done":  r.LinesDone,
			"lines_total": r.LinesTotal,
			"percent":     pct,
		},
	}
}

func summaryCard(s domain.Summary) Component {
	return Component{
		Type:       ComponentSummary,
		Title:      "Summary",
		Priority:   10,
		Visibility: VisibilityVisible,
		Data: map[string]any{
			"lines_tested": s.LinesTested,
			"differences":  s.Differences,
			"errors":       s.Errors,
			"all_match":    s.AllMatch,
		},
	}
}

// diffTable lists lines whose engines disagree on phonemes or token count.
func diffTable(outcomes []domain.Outcome) Component {
	rows := make([]map[string]any, 0, min(len(outcomes), MaxRows))
	for _, o := range outcomes[:min(len(outcomes), MaxRows)] {
		rows = append(rows, map[string]any{
			"line":      o.Line,
			"text":      o.Text,
			"status":    string(o.Status),
			"baseline":  o.Baseline.Result.Phonemes,
			"candidate": o.Candidate.Result.Phonemes,
		})
	}
	return Component{
		Type:       ComponentDiffTable,
		Title:      "Differences",
		Priority:   20,
		Visibility: VisibilityVisible,
		Data: map[string]any{
			"rows":      rows,
			"total":     len(outcomes),
			"truncated": len(outcomes) > MaxRows,
		},
	}
}

func errorList(outcomes []domain.Outcome) Component {
	rows := make([]map[string]any, 0, min(len(outcomes), MaxRows))
	for _, o := range outcomes[:min(len(outcomes), MaxRows)] {
		rows = append(rows, map[string]any{
			"line":  o.Line,
			"text":  o.Text,
			"error": o.ErrorMessage(),
		})
	}
	return Component{
		Type:       ComponentErrorList,
		Title:      "Errors",
		Priority:   30,
		Visibility: VisibilityVisible,
		Data: map[string]any{
			"rows":      rows,
			"total":     len(outcomes),
			"truncated": len(outcomes) > MaxRows,
		},
	}
}
