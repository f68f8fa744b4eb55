package uischema

import (
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

const schemaVersion = "v1"

// MaxRows caps the rows carried by the diff and error components.
const MaxRows = 50

// Build constructs a UISchema from the current regression state.
func Build(workflowID string, r workflows.RegressionResult) UISchema {
	schema := UISchema{
		Version:    schemaVersion,
		WorkflowID: workflowID,
		Phase:      string(r.Phase),
		Components: []Component{progress(r)},
	}

	if r.LinesDone > 0 {
		schema.Components = append(schema.Components, summaryCard(r.Report.Summary))
	}

	var diffs, errs []domain.Outcome
	for _, o := range r.Report.Outcomes {
		switch {
		case o.Status == domain.StatusError:
			errs = append(errs, o)
		case o.Differs():
			diffs = append(diffs, o)
		}
	}
	if len(diffs) > 0 {
		schema.Components = append(schema.Components, diffTable(diffs))
	}
	if len(errs) > 0 {
		schema.Components = append(schema.Components, errorList(errs))
	}

	if r.Phase == workflows.PhaseCompleted {
		schema.Components = append(schema.Components, Component{
			Type:       ComponentPublishing,
			Title:      "Metrics",
			Priority:   40,
			Visibility: VisibilityCollapsed,
			Data:       map[string]any{"published": r.Published},
		})
	}
	return schema
}
