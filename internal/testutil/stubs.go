// Package testutil provides stub phonemizers and fixtures shared by tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/jag2p/jag2p-go/internal/domain"
)

// StubPhonemizer satisfies g2p.Phonemizer with canned results keyed by input
// text. Texts listed in Errors fail; texts listed in Panics panic with the
// given value; anything else without a result is an error.
type StubPhonemizer struct {
	Results map[string]domain.Result
	Errors  map[string]error
	Panics  map[string]any

	mu    sync.Mutex
	calls []string
}

func (s *StubPhonemizer) Phonemize(ctx context.Context, text string) (domain.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, text)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	if v, ok := s.Panics[text]; ok {
		panic(v)
	}
	if err, ok := s.Errors[text]; ok {
		return domain.Result{}, err
	}
	if r, ok := s.Results[text]; ok {
		return r, nil
	}
	return domain.Result{}, fmt.Errorf("stub: no result for %q", text)
}

// Calls returns the texts passed to Phonemize, in order.
func (s *StubPhonemizer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// FuncPhonemizer adapts a function to g2p.Phonemizer.
type FuncPhonemizer func(ctx context.Context, text string) (domain.Result, error)

func (f FuncPhonemizer) Phonemize(ctx context.Context, text string) (domain.Result, error) {
	return f(ctx, text)
}

// Result builds a Result whose phoneme string is derived from the tokens.
// With no tokens it returns a token-less Result with the given phonemes.
func Result(phonemes string, tokens ...domain.Token) domain.Result {
	if len(tokens) == 0 {
		return domain.Result{Phonemes: phonemes}
	}
	return domain.Result{Phonemes: phonemes, Tokens: tokens}
}

// LoadStub reads a fixture file mapping input text to Result into a
// StubPhonemizer.
func LoadStub(path string) (*StubPhonemizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results map[string]domain.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("testutil: parse %s: %w", path, err)
	}
	return &StubPhonemizer{Results: results}, nil
}

// GoldenDir returns the absolute path to the golden fixtures directory.
func GoldenDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "golden")
}
