package activities_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
	"github.com/jag2p/jag2p-go/internal/temporal/activities"
	"github.com/jag2p/jag2p-go/internal/testutil"
)

type stubEngines struct {
	baseline, candidate g2p.Phonemizer
	err                 error
	calls               int
}

func (s *stubEngines) Pair(_ context.Context, _, _ g2p.EngineConfig) (g2p.Phonemizer, g2p.Phonemizer, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.baseline, s.candidate, nil
}

type stubPublisher struct {
	got []domain.Summary
	err error
}

func (p *stubPublisher) Publish(_ context.Context, _, _ domain.Backend, s domain.Summary) error {
	p.got = append(p.got, s)
	return p.err
}

func newTestActivities(t *testing.T) (*activities.Activities, *stubEngines) {
	t.Helper()
	dir := testutil.GoldenDir()
	baseline, err := testutil.LoadStub(dir + "/baseline.json")
	require.NoError(t, err)
	candidate, err := testutil.LoadStub(dir + "/candidate.json")
	require.NoError(t, err)
	engines := &stubEngines{baseline: baseline, candidate: candidate}
	return &activities.Activities{Engines: engines}, engines
}

func batchInput(lines ...string) activities.CompareBatchInput {
	return activities.CompareBatchInput{
		Lines:     lines,
		FirstLine: 11,
		Baseline:  g2p.EngineConfig{Backend: domain.BackendKagomeIPA},
		Candidate: g2p.EngineConfig{Backend: domain.BackendKagomeUni},
	}
}

func TestCompareBatch_NumbersFromFirstLine(t *testing.T) {
	t.Parallel()
	a, _ := newTestActivities(t)

	out, err := a.CompareBatch(context.Background(), batchInput("こんにちは", "東京タワー"))
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 2)

	assert.Equal(t, 11, out.Outcomes[0].Line)
	assert.Equal(t, domain.StatusMatch, out.Outcomes[0].Status)
	assert.Equal(t, 12, out.Outcomes[1].Line)
	assert.Equal(t, domain.StatusPhonemeDiff, out.Outcomes[1].Status)
}

func TestCompareBatch_DefaultsFirstLine(t *testing.T) {
	t.Parallel()
	a, _ := newTestActivities(t)
	in := batchInput("こんにちは")
	in.FirstLine = 0

	out, err := a.CompareBatch(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 1)
	assert.Equal(t, 1, out.Outcomes[0].Line)
}

func TestCompareBatch_EngineErrorsStayPerLine(t *testing.T) {
	t.Parallel()
	a, _ := newTestActivities(t)

	out, err := a.CompareBatch(context.Background(), batchInput("not in fixtures"))
	require.NoError(t, err)
	require.Len(t, out.Outcomes, 1)
	assert.Equal(t, domain.StatusError, out.Outcomes[0].Status)
	assert.Contains(t, out.Outcomes[0].ErrorMessage(), "no result")
}

func TestCompareBatch_PairFailure(t *testing.T) {
	t.Parallel()
	a, engines := newTestActivities(t)
	engines.err = g2p.ErrUnknownBackend

	_, err := a.CompareBatch(context.Background(), batchInput("こんにちは"))
	require.ErrorIs(t, err, g2p.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "compare batch activity")
}

func TestCompareBatch_NoEngines(t *testing.T) {
	t.Parallel()
	a := &activities.Activities{}

	_, err := a.CompareBatch(context.Background(), batchInput("こんにちは"))
	assert.Error(t, err)
}

func TestCompareBatch_Cancelled(t *testing.T) {
	t.Parallel()
	a, _ := newTestActivities(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.CompareBatch(ctx, batchInput("こんにちは"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareBatch_Budget(t *testing.T) {
	t.Parallel()
	a, engines := newTestActivities(t)
	a.Budget = ratelimit.NewRequestBudget(1, time.Hour)

	_, err := a.CompareBatch(context.Background(), batchInput("こんにちは"))
	require.NoError(t, err)

	_, err = a.CompareBatch(context.Background(), batchInput("こんにちは"))
	assert.ErrorIs(t, err, ratelimit.ErrBudgetExceeded)
	assert.Equal(t, 1, engines.calls)
}

func TestPublishSummary(t *testing.T) {
	t.Parallel()
	summary := domain.Summary{LinesTested: 3, Differences: 1}
	in := activities.PublishSummaryInput{
		Baseline:  domain.BackendKagomeIPA,
		Candidate: domain.BackendGoruut,
		Summary:   summary,
	}

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		out, err := (&activities.Activities{}).PublishSummary(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, out.Published)
	})

	t.Run("published", func(t *testing.T) {
		t.Parallel()
		pub := &stubPublisher{}
		out, err := (&activities.Activities{Publisher: pub}).PublishSummary(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, out.Published)
		assert.Equal(t, []domain.Summary{summary}, pub.got)
	})

	t.Run("publisher error", func(t *testing.T) {
		t.Parallel()
		pub := &stubPublisher{err: errors.New("throttled")}
		_, err := (&activities.Activities{Publisher: pub}).PublishSummary(context.Background(), in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})
}
