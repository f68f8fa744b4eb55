// Package domain holds the value types shared by the engine, the comparison
// harness and every surface that exposes them.
package domain

import "strings"

// Token is one lexical unit of phonemized text.
type Token struct {
	Text       string `json:"text"`
	Phonemes   string `json:"phonemes"`
	Tag        string `json:"tag"`
	Whitespace string `json:"whitespace,omitempty"`
}

// Result is the output of a single phonemization call.
// Tokens is nil when the backend does not report tokens.
type Result struct {
	Phonemes string  `json:"phonemes"`
	Tokens   []Token `json:"tokens"`
}

// HasTokens reports whether the producing backend supplied a token sequence.
func (r Result) HasTokens() bool {
	return r.Tokens != nil
}

// JoinPhonemes concatenates token phonemes, inserting a single space wherever
// the source text had whitespace after a token.
func JoinPhonemes(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		b.WriteString(t.Phonemes)
		if t.Whitespace != "" && i < len(tokens)-1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Attempt is the outcome of invoking one engine on one line:
// either a Result (OK) or the reason it failed.
type Attempt struct {
	OK     bool   `json:"ok"`
	Result Result `json:"result"`
	Err    string `json:"error,omitempty"`
}

// Succeeded wraps a successful Result.
func Succeeded(r Result) Attempt {
	return Attempt{OK: true, Result: r}
}

// Failed wraps a failure reason.
func Failed(reason string) Attempt {
	return Attempt{Err: reason}
}

// Outcome records the comparison of two engines on one input line.
type Outcome struct {
	Line      int     `json:"line"`
	Text      string  `json:"text"`
	Baseline  Attempt `json:"baseline"`
	Candidate Attempt `json:"candidate"`

	PhonemesMatch      bool          `json:"phonemes_match"`
	TokenCountCompared bool          `json:"token_count_compared"`
	TokenCountMatch    bool          `json:"token_count_match"`
	Status             OutcomeStatus `json:"status"`
}

// NewOutcome compares two attempts for the given 1-based line.
func NewOutcome(line int, text string, baseline, candidate Attempt) Outcome {
	o := Outcome{Line: line, Text: text, Baseline: baseline, Candidate: candidate}
	if !baseline.OK || !candidate.OK {
		o.Status = StatusError
		return o
	}

	o.PhonemesMatch = baseline.Result.Phonemes == candidate.Result.Phonemes
	if baseline.Result.HasTokens() && candidate.Result.HasTokens() {
		o.TokenCountCompared = true
		o.TokenCountMatch = len(baseline.Result.Tokens) == len(candidate.Result.Tokens)
	}

	switch {
	case !o.PhonemesMatch:
		o.Status = StatusPhonemeDiff
	case o.TokenCountCompared && !o.TokenCountMatch:
		o.Status = StatusTokenDiff
	default:
		o.Status = StatusMatch
	}
	return o
}

// Differs reports whether the line counts against the overall result.
func (o Outcome) Differs() bool {
	return o.Status != StatusMatch
}

// ErrorMessage returns the first failure reason recorded on the outcome.
func (o Outcome) ErrorMessage() string {
	if o.Baseline.Err != "" {
		return o.Baseline.Err
	}
	return o.Candidate.Err
}

// Summary aggregates a run of outcomes.
type Summary struct {
	LinesTested int  `json:"lines_tested"`
	Differences int  `json:"differences"`
	Errors      int  `json:"errors"`
	AllMatch    bool `json:"all_match"`
}

// Summarize folds outcomes into a Summary. Zero outcomes is a full match.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{LinesTested: len(outcomes)}
	for _, o := range outcomes {
		if o.Status == StatusError {
			s.Errors++
		}
		if o.Differs() {
			s.Differences++
		}
	}
	s.AllMatch = s.Differences == 0
	return s
}
