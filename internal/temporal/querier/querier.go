package querier

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/jag2p/jag2p-go/internal/temporal/versioning"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

// MemoVersion is the memo key carrying the workflow version a run started on.
const MemoVersion = "version"

// TemporalQuerier implements WorkflowQuerier using a Temporal client.
type TemporalQuerier struct {
	client client.Client
}

// New creates a TemporalQuerier.
func New(c client.Client) *TemporalQuerier {
	return &TemporalQuerier{client: c}
}

// ListWorkflows lists workflow executions using Temporal's visibility API.
func (q *TemporalQuerier) ListWorkflows(ctx context.Context, opts ListOptions) ([]WorkflowSummary, error) {
	query := ""
	if opts.TaskQueue != "" {
		query = fmt.Sprintf("TaskQueue = %q", opts.TaskQueue)
	}
	if opts.StatusFilter != "" {
		if query != "" {
			query += " AND "
		}
		query += fmt.Sprintf("ExecutionStatus = %q", opts.StatusFilter)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	resp, err := q.client.ListWorkflow(ctx, &workflowservice.ListWorkflowExecutionsRequest{
		Query:    query,
		PageSize: int32(pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}

	summaries := make([]WorkflowSummary, 0, len(resp.Executions))
	for _, exec := range resp.Executions {
		s := WorkflowSummary{
			WorkflowID: exec.Execution.WorkflowId,
			RunID:      exec.Execution.RunId,
			Status:     exec.Status.String(),
			StartTime:  exec.StartTime.AsTime(),
			TaskQueue:  exec.TaskQueue,
		}
		if exec.CloseTime != nil {
			s.CloseTime = exec.CloseTime.AsTime()
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// GetRegressionState returns the current state of a regression run.
// For completed workflows, extracts the result directly.
// For running workflows, uses the Query handler.
func (q *TemporalQuerier) GetRegressionState(ctx context.Context, workflowID string) (*workflows.RegressionResult, error) {
	desc, err := q.client.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("describe workflow: %w", err)
	}

	status := desc.WorkflowExecutionInfo.Status
	if status == enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED {
		run := q.client.GetWorkflow(ctx, workflowID, "")
		var result workflows.RegressionResult
		if err := run.Get(ctx, &result); err != nil {
			return nil, fmt.Errorf("get workflow result: %w", err)
		}
		return &result, nil
	}

	if status == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		resp, err := q.client.QueryWorkflow(ctx, workflowID, "", workflows.QueryNameState)
		if err != nil {
			return nil, fmt.Errorf("query workflow state: %w", err)
		}
		var result workflows.RegressionResult
		if err := resp.Get(&result); err != nil {
			return nil, fmt.Errorf("decode query result: %w", err)
		}
		return &result, nil
	}

	return nil, fmt.Errorf("workflow %s has status %s, cannot read state", workflowID, status)
}

// DescribeWorkflow returns detailed information about a workflow execution.
func (q *TemporalQuerier) DescribeWorkflow(ctx context.Context, workflowID string) (*WorkflowDescription, error) {
	desc, err := q.client.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("describe workflow: %w", err)
	}

	info := desc.WorkflowExecutionInfo
	wd := &WorkflowDescription{
		WorkflowSummary: WorkflowSummary{
			WorkflowID: info.Execution.WorkflowId,
			RunID:      info.Execution.RunId,
			Status:     info.Status.String(),
			StartTime:  info.StartTime.AsTime(),
			TaskQueue:  info.TaskQueue,
		},
	}
	if info.CloseTime != nil {
		wd.CloseTime = info.CloseTime.AsTime()
	}
	if info.Memo != nil && len(info.Memo.Fields) > 0 {
		wd.Memo = make(map[string]string, len(info.Memo.Fields))
		dc := converter.GetDefaultDataConverter()
		for k, p := range info.Memo.Fields {
			var v string
			if err := dc.FromPayload(p, &v); err == nil {
				wd.Memo[k] = v
			}
		}
	}
	return wd, nil
}

// StartRegression starts a RegressionWorkflow and returns its identifiers.
func (q *TemporalQuerier) StartRegression(ctx context.Context, opts StartOptions, input workflows.RegressionInput) (*WorkflowSummary, error) {
	queue := opts.TaskQueue
	if queue == "" {
		queue = versioning.QueueRegression
	}
	run, err := q.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        opts.WorkflowID,
		TaskQueue: queue,
		Memo:      map[string]any{MemoVersion: versioning.RegressionV1},
	}, workflows.RegressionWorkflow, input)
	if err != nil {
		return nil, fmt.Errorf("start regression: %w", err)
	}
	return &WorkflowSummary{
		WorkflowID: run.GetID(),
		RunID:      run.GetRunID(),
		Status:     enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING.String(),
		TaskQueue:  queue,
	}, nil
}
