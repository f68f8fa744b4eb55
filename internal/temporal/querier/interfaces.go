package querier

import (
	"context"

	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

// WorkflowQuerier provides read access to regression runs and the ability to
// start new ones. Used by the HTTP API, AG-UI streamer, MCP server and CLI.
type WorkflowQuerier interface {
	ListWorkflows(ctx context.Context, opts ListOptions) ([]WorkflowSummary, error)
	GetRegressionState(ctx context.Context, workflowID string) (*workflows.RegressionResult, error)
	DescribeWorkflow(ctx context.Context, workflowID string) (*WorkflowDescription, error)
	StartRegression(ctx context.Context, opts StartOptions, input workflows.RegressionInput) (*WorkflowSummary, error)
}
