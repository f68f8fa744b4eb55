package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/temporal/activities"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

type RegressionSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *RegressionSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivity(&activities.Activities{})
}

func (s *RegressionSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func regressionInput(lines ...string) workflows.RegressionInput {
	return workflows.RegressionInput{
		Lines:     lines,
		Baseline:  g2p.EngineConfig{Backend: domain.BackendKagomeIPA},
		Candidate: g2p.EngineConfig{Backend: domain.BackendKagomeUni},
	}
}

// echoBatch answers CompareBatch with one matching outcome per line, except
// lines listed in differ.
func echoBatch(differ map[string]bool) func(context.Context, activities.CompareBatchInput) (activities.CompareBatchOutput, error) {
	return func(_ context.Context, in activities.CompareBatchInput) (activities.CompareBatchOutput, error) {
		out := activities.CompareBatchOutput{}
		for i, text := range in.Lines {
			b := domain.Succeeded(domain.Result{Phonemes: text})
			c := b
			if differ[text] {
				c = domain.Succeeded(domain.Result{Phonemes: text + "!"})
			}
			out.Outcomes = append(out.Outcomes, domain.NewOutcome(in.FirstLine+i, text, b, c))
		}
		return out, nil
	}
}

func (s *RegressionSuite) TestAllMatch_SingleBatch() {
	s.env.OnActivity("CompareBatch", testAnyCtx, testAnyInput).Return(echoBatch(nil)).Once()
	s.env.OnActivity("PublishSummary", testAnyCtx, testAnyInput).Return(
		activities.PublishSummaryOutput{Published: true}, nil,
	).Once()

	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, regressionInput("a", "b", "c"))
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.RegressionResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal(workflows.PhaseCompleted, result.Phase)
	s.Equal(3, result.LinesTotal)
	s.Equal(3, result.LinesDone)
	s.True(result.Published)
	s.Equal(domain.Summary{LinesTested: 3, AllMatch: true}, result.Report.Summary)
}

func (s *RegressionSuite) TestBatchesKeepGlobalLineNumbers() {
	var firstLines []int
	s.env.OnActivity("CompareBatch", testAnyCtx, testAnyInput).Return(
		func(ctx context.Context, in activities.CompareBatchInput) (activities.CompareBatchOutput, error) {
			firstLines = append(firstLines, in.FirstLine)
			return echoBatch(map[string]bool{"e": true})(ctx, in)
		},
	).Times(3)
	s.env.OnActivity("PublishSummary", testAnyCtx, mock.MatchedBy(func(in activities.PublishSummaryInput) bool {
		return in.Summary.Differences == 1 && in.Summary.LinesTested == 5
	})).Return(activities.PublishSummaryOutput{Published: true}, nil).Once()

	input := regressionInput("a", "b", "c", "  ", "d", "e")
	input.BatchSize = 2
	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, input)
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.RegressionResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal([]int{1, 3, 5}, firstLines)
	s.Require().Len(result.Report.Outcomes, 5)
	for i, o := range result.Report.Outcomes {
		s.Equal(i+1, o.Line)
	}
	s.Equal(domain.StatusPhonemeDiff, result.Report.Outcomes[4].Status)
	s.False(result.Report.Summary.AllMatch)
}

func (s *RegressionSuite) TestNoLines_StillPublishes() {
	s.env.OnActivity("PublishSummary", testAnyCtx, testAnyInput).Return(
		activities.PublishSummaryOutput{}, nil,
	).Once()

	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, regressionInput())
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.RegressionResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal(0, result.LinesTotal)
	s.Empty(result.Report.Outcomes)
	s.True(result.Report.Summary.AllMatch)
	s.False(result.Published)
}

func (s *RegressionSuite) TestBatchFailureFailsRun() {
	s.env.OnActivity("CompareBatch", testAnyCtx, testAnyInput).Return(
		activities.CompareBatchOutput{}, errors.New("dictionary missing"),
	)

	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, regressionInput("a"))
	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.Contains(err.Error(), "compare lines 1-1")
}

func (s *RegressionSuite) TestPublishFailureIsNotFatal() {
	s.env.OnActivity("CompareBatch", testAnyCtx, testAnyInput).Return(echoBatch(nil))
	s.env.OnActivity("PublishSummary", testAnyCtx, testAnyInput).Return(
		activities.PublishSummaryOutput{}, errors.New("throttled"),
	)

	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, regressionInput("a"))
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.RegressionResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal(workflows.PhaseCompleted, result.Phase)
	s.False(result.Published)
	s.Equal(1, result.LinesDone)
}

func (s *RegressionSuite) TestStateQuery() {
	s.env.OnActivity("CompareBatch", testAnyCtx, testAnyInput).Return(echoBatch(nil))
	s.env.OnActivity("PublishSummary", testAnyCtx, testAnyInput).Return(
		activities.PublishSummaryOutput{Published: true}, nil,
	)

	s.env.ExecuteWorkflow(workflows.RegressionWorkflow, regressionInput("a", "b"))
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	val, err := s.env.QueryWorkflow(workflows.QueryNameState)
	s.Require().NoError(err)
	var state workflows.RegressionResult
	s.Require().NoError(val.Get(&state))
	s.Equal(workflows.PhaseCompleted, state.Phase)
	s.Equal(2, state.LinesTotal)
	s.Equal(2, state.LinesDone)
	s.True(state.Published)
}

func TestRegressionSuite(t *testing.T) {
	suite.Run(t, new(RegressionSuite))
}
