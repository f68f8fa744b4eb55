// Package compare runs a baseline and a candidate phonemizer over the same
// lines and records, per line, whether their output agrees.
package compare

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
)

// InputFile is the fixed name of the harness input, read from the working
// directory.
const InputFile = "test_prompts.txt"

var ErrInputNotFound = errors.New("compare: input not found")

// Report is the result of one comparison run.
type Report struct {
	Outcomes []domain.Outcome `json:"outcomes"`
	Summary  domain.Summary   `json:"summary"`
}

// LoadLines reads path and returns its non-blank lines, trimmed.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("compare: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines returns the non-blank lines of r, trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lines := []string{}
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("compare: read lines: %w", err)
	}
	return lines, nil
}

// NormalizeLines applies the same trimming and blank-line filtering as
// ReadLines to lines that arrive already split.
func NormalizeLines(in []string) []string {
	out := make([]string, 0, len(in))
	for _, l := range in {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Call invokes p and folds both errors and panics into a failed Attempt.
func Call(ctx context.Context, p g2p.Phonemizer, text string) (a domain.Attempt) {
	defer func() {
		if r := recover(); r != nil {
			a = domain.Failed(fmt.Sprint(r))
		}
	}()
	res, err := p.Phonemize(ctx, text)
	if err != nil {
		return domain.Failed(err.Error())
	}
	return domain.Succeeded(res)
}

type runOptions struct {
	firstLine int
	observe   func(domain.Outcome)
	metrics   *observability.Metrics
}

// RunOption customizes Run.
type RunOption func(*runOptions)

// WithFirstLine numbers the first line n instead of 1.
func WithFirstLine(n int) RunOption {
	return func(o *runOptions) { o.firstLine = n }
}

// WithObserver calls fn with every outcome as soon as it is known.
func WithObserver(fn func(domain.Outcome)) RunOption {
	return func(o *runOptions) { o.observe = fn }
}

func WithMetrics(m *observability.Metrics) RunOption {
	return func(o *runOptions) { o.metrics = m }
}

// Run compares the two phonemizers line by line, in order. Both are always
// called, even when the baseline fails. Cancellation is checked between lines
// only; on cancellation the outcomes gathered so far are returned with the
// context error.
func Run(ctx context.Context, baseline, candidate g2p.Phonemizer, lines []string, opts ...RunOption) (Report, error) {
	o := runOptions{firstLine: 1}
	for _, opt := range opts {
		opt(&o)
	}

	outcomes := make([]domain.Outcome, 0, len(lines))
	for i, text := range lines {
		if err := ctx.Err(); err != nil {
			return Report{Outcomes: outcomes, Summary: domain.Summarize(outcomes)}, err
		}
		b := Call(ctx, baseline, text)
		c := Call(ctx, candidate, text)
		out := domain.NewOutcome(o.firstLine+i, text, b, c)
		outcomes = append(outcomes, out)

		o.metrics.RecordOutcome(ctx, string(out.Status))
		if o.observe != nil {
			o.observe(out)
		}
	}
	return Report{Outcomes: outcomes, Summary: domain.Summarize(outcomes)}, nil
}
