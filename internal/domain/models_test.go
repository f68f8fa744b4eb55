package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(n int) []Token {
	out := make([]Token, n)
	for i := range out {
		out[i] = Token{Text: "x", Phonemes: "x", Tag: "名詞"}
	}
	return out
}

func TestNewOutcome(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name          string
		baseline      Attempt
		candidate     Attempt
		wantStatus    OutcomeStatus
		wantCompared  bool
		wantPhonMatch bool
	}{
		{
			name:          "identical",
			baseline:      Succeeded(Result{Phonemes: "konnichiwa", Tokens: tokens(1)}),
			candidate:     Succeeded(Result{Phonemes: "konnichiwa", Tokens: tokens(1)}),
			wantStatus:    StatusMatch,
			wantCompared:  true,
			wantPhonMatch: true,
		},
		{
			name:         "phoneme difference",
			baseline:     Succeeded(Result{Phonemes: "konnichiwa", Tokens: tokens(1)}),
			candidate:    Succeeded(Result{Phonemes: "konnichiha", Tokens: tokens(1)}),
			wantStatus:   StatusPhonemeDiff,
			wantCompared: true,
		},
		{
			name:          "token count difference",
			baseline:      Succeeded(Result{Phonemes: "a", Tokens: tokens(1)}),
			candidate:     Succeeded(Result{Phonemes: "a", Tokens: tokens(2)}),
			wantStatus:    StatusTokenDiff,
			wantCompared:  true,
			wantPhonMatch: true,
		},
		{
			name:          "tokens absent on one side",
			baseline:      Succeeded(Result{Phonemes: "a", Tokens: tokens(1)}),
			candidate:     Succeeded(Result{Phonemes: "a"}),
			wantStatus:    StatusMatch,
			wantPhonMatch: true,
		},
		{
			name:       "baseline failed",
			baseline:   Failed("boom"),
			candidate:  Succeeded(Result{Phonemes: "a"}),
			wantStatus: StatusError,
		},
		{
			name:       "candidate failed",
			baseline:   Succeeded(Result{Phonemes: "a"}),
			candidate:  Failed("boom"),
			wantStatus: StatusError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := NewOutcome(1, "text", tt.baseline, tt.candidate)
			assert.Equal(t, tt.wantStatus, o.Status)
			assert.Equal(t, tt.wantCompared, o.TokenCountCompared)
			assert.Equal(t, tt.wantPhonMatch, o.PhonemesMatch)
			assert.Equal(t, tt.wantStatus != StatusMatch, o.Differs())
			assert.NoError(t, ValidateOutcome(o))
		})
	}
}

func TestOutcomeErrorMessage(t *testing.T) {
	t.Parallel()
	o := NewOutcome(1, "x", Succeeded(Result{}), Failed("candidate exploded"))
	assert.Equal(t, "candidate exploded", o.ErrorMessage())

	o = NewOutcome(1, "x", Failed("baseline exploded"), Failed("candidate exploded"))
	assert.Equal(t, "baseline exploded", o.ErrorMessage())
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	ok := Succeeded(Result{Phonemes: "a", Tokens: tokens(1)})
	outcomes := []Outcome{
		NewOutcome(1, "a", ok, ok),
		NewOutcome(2, "b", ok, Succeeded(Result{Phonemes: "b", Tokens: tokens(1)})),
		NewOutcome(3, "c", ok, Failed("boom")),
	}

	s := Summarize(outcomes)
	assert.Equal(t, 3, s.LinesTested)
	assert.Equal(t, 2, s.Differences)
	assert.Equal(t, 1, s.Errors)
	assert.False(t, s.AllMatch)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()
	s := Summarize(nil)
	assert.Equal(t, 0, s.LinesTested)
	assert.True(t, s.AllMatch)
}

func TestJoinPhonemes(t *testing.T) {
	t.Parallel()
	toks := []Token{
		{Text: "東京", Phonemes: "toːkjoː", Tag: "名詞", Whitespace: " "},
		{Text: "タワー", Phonemes: "tawaː", Tag: "名詞", Whitespace: " "},
	}
	assert.Equal(t, "toːkjoː tawaː", JoinPhonemes(toks))
	assert.Equal(t, "", JoinPhonemes(nil))
}

func TestResultTokensNilVersusEmpty(t *testing.T) {
	t.Parallel()
	assert.False(t, Result{}.HasTokens())
	assert.True(t, Result{Tokens: []Token{}}.HasTokens())

	data, err := json.Marshal(Result{Phonemes: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phonemes":"a","tokens":null}`, string(data))
}
