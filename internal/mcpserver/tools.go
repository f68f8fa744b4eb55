// Package mcpserver exposes the phonemizer and regression runs via MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
	"github.com/jag2p/jag2p-go/internal/uischema"
)

// MaxCompareLines bounds compare_engines; longer inputs go to start_regression.
const MaxCompareLines = 200

// EngineSource hands out engines by configuration. Implemented by
// g2p.Registry.
type EngineSource interface {
	Get(ctx context.Context, cfg g2p.EngineConfig) (g2p.Phonemizer, error)
	Pair(ctx context.Context, baseline, candidate g2p.EngineConfig) (g2p.Phonemizer, g2p.Phonemizer, error)
}

// Deps bundles what the tools need. The regression tools are only
// registered when Querier is set.
type Deps struct {
	Engines   EngineSource
	Querier   querier.WorkflowQuerier
	Baseline  g2p.EngineConfig
	Candidate g2p.EngineConfig
	TaskQueue string
}

// RegisterTools registers all MCP tools on the given server.
func RegisterTools(server *mcp.Server, d Deps) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_backends",
			Description: "List the phonemizer backends and phoneme inventories, with the default baseline and candidate",
		},
		listBackendsHandler(d),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "phonemize",
			Description: "Convert Japanese text to phonemes with one backend and return the phoneme string and tokens",
		},
		phonemizeHandler(d),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "compare_engines",
			Description: "Run the baseline and candidate backends over a few lines and report per-line differences",
		},
		compareHandler(d),
	)

	if d.Querier == nil {
		return
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_regressions",
			Description: "List regression runs with their status",
		},
		listRegressionsHandler(d),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_regression",
			Description: "Get progress and report for a regression run",
		},
		getRegressionHandler(d.Querier),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_regression_ui",
			Description: "Get UI schema (progress, summary, differences) for rendering a regression run",
		},
		getRegressionUIHandler(d.Querier),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "start_regression",
			Description: "Start a durable regression run comparing two backends over many lines",
		},
		startRegressionHandler(d),
	)
}

func listBackendsHandler(d Deps) mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return textResult(map[string]any{
			"backends":    domain.Backends(),
			"inventories": domain.Inventories(),
			"baseline":    d.Baseline,
			"candidate":   d.Candidate,
		})
	}
}

type phonemizeInput struct {
	Text      string `json:"text"`
	Backend   string `json:"backend,omitempty"`
	Inventory string `json:"inventory,omitempty"`
}

func phonemizeHandler(d Deps) mcp.ToolHandlerFor[phonemizeInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input phonemizeInput) (*mcp.CallToolResult, any, error) {
		if input.Text == "" {
			return errorResult("text is required"), nil, nil
		}
		cfg := override(d.Baseline, input.Backend, input.Inventory)
		p, err := d.Engines.Get(ctx, cfg)
		if err != nil {
			if isConfigError(err) {
				return errorResult(err.Error()), nil, nil
			}
			return nil, nil, fmt.Errorf("phonemize: %w", err)
		}
		res, err := p.Phonemize(ctx, input.Text)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(res)
	}
}

type compareInput struct {
	Lines     []string `json:"lines"`
	Baseline  string   `json:"baseline,omitempty"`
	Candidate string   `json:"candidate,omitempty"`
}

func compareHandler(d Deps) mcp.ToolHandlerFor[compareInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, any, error) {
		lines := compare.NormalizeLines(input.Lines)
		if len(lines) == 0 {
			return errorResult("lines must contain at least one non-blank line"), nil, nil
		}
		if len(lines) > MaxCompareLines {
			return errorResult(fmt.Sprintf("at most %d lines; use start_regression for more", MaxCompareLines)), nil, nil
		}

		b, c, err := d.Engines.Pair(ctx,
			override(d.Baseline, input.Baseline, ""),
			override(d.Candidate, input.Candidate, ""),
		)
		if err != nil {
			if isConfigError(err) {
				return errorResult(err.Error()), nil, nil
			}
			return nil, nil, fmt.Errorf("compare_engines: %w", err)
		}
		rep, err := compare.Run(ctx, b, c, lines)
		if err != nil {
			return nil, nil, fmt.Errorf("compare_engines: %w", err)
		}
		return textResult(rep)
	}
}

type listRegressionsInput struct {
	Status string `json:"status,omitempty"`
}

func listRegressionsHandler(d Deps) mcp.ToolHandlerFor[listRegressionsInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input listRegressionsInput) (*mcp.CallToolResult, any, error) {
		opts := querier.ListOptions{TaskQueue: d.TaskQueue, StatusFilter: input.Status}
		runs, err := d.Querier.ListWorkflows(ctx, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("list_regressions: %w", err)
		}
		return textResult(runs)
	}
}

type workflowIDInput struct {
	WorkflowID string `json:"workflow_id"`
}

func getRegressionHandler(q querier.WorkflowQuerier) mcp.ToolHandlerFor[workflowIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input workflowIDInput) (*mcp.CallToolResult, any, error) {
		if input.WorkflowID == "" {
			return errorResult("workflow_id is required"), nil, nil
		}

		result, err := q.GetRegressionState(ctx, input.WorkflowID)
		if err != nil {
			return nil, nil, fmt.Errorf("get_regression: %w", err)
		}

		return textResult(result)
	}
}

func getRegressionUIHandler(q querier.WorkflowQuerier) mcp.ToolHandlerFor[workflowIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input workflowIDInput) (*mcp.CallToolResult, any, error) {
		if input.WorkflowID == "" {
			return errorResult("workflow_id is required"), nil, nil
		}

		result, err := q.GetRegressionState(ctx, input.WorkflowID)
		if err != nil {
			return nil, nil, fmt.Errorf("get_regression_ui: %w", err)
		}

		return textResult(uischema.Build(input.WorkflowID, *result))
	}
}

type startRegressionInput struct {
	Lines     []string `json:"lines"`
	Baseline  string   `json:"baseline,omitempty"`
	Candidate string   `json:"candidate,omitempty"`
	BatchSize int      `json:"batch_size,omitempty"`
}

func startRegressionHandler(d Deps) mcp.ToolHandlerFor[startRegressionInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input startRegressionInput) (*mcp.CallToolResult, any, error) {
		in := workflows.RegressionInput{
			Lines:     compare.NormalizeLines(input.Lines),
			Baseline:  override(d.Baseline, input.Baseline, ""),
			Candidate: override(d.Candidate, input.Candidate, ""),
			BatchSize: input.BatchSize,
		}
		if len(in.Lines) == 0 {
			return errorResult("lines must contain at least one non-blank line"), nil, nil
		}
		for _, cfg := range []g2p.EngineConfig{in.Baseline, in.Candidate} {
			if err := cfg.Validate(); err != nil {
				return errorResult(err.Error()), nil, nil
			}
		}

		sum, err := d.Querier.StartRegression(ctx, querier.StartOptions{
			WorkflowID: "regression-" + uuid.NewString(),
			TaskQueue:  d.TaskQueue,
		}, in)
		if err != nil {
			return nil, nil, fmt.Errorf("start_regression: %w", err)
		}
		return textResult(sum)
	}
}

func override(base g2p.EngineConfig, backend, inventory string) g2p.EngineConfig {
	if backend != "" {
		base.Backend = domain.Backend(backend)
	}
	if inventory != "" {
		base.Inventory = domain.Inventory(inventory)
	}
	return base
}

func isConfigError(err error) bool {
	return errors.Is(err, g2p.ErrUnknownBackend) || errors.Is(err, g2p.ErrUnknownInventory)
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
