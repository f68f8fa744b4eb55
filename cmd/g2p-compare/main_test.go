package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/config"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/testutil"
)

func stubs(base, cand *testutil.StubPhonemizer) engineFactory {
	return func(context.Context, config.Config, *slog.Logger) (g2p.Phonemizer, g2p.Phonemizer, error) {
		return base, cand, nil
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, compare.InputFile), []byte(content), 0o644))
	return dir
}

func konnichiwa() domain.Result {
	return testutil.Result("konnichiwa", domain.Token{Text: "こんにちは", Phonemes: "konnichiwa", Tag: "感動詞"})
}

func TestRun_IdenticalLine(t *testing.T) {
	t.Parallel()
	dir := writeInput(t, "こんにちは\n")
	stub := &testutil.StubPhonemizer{Results: map[string]domain.Result{"こんにちは": konnichiwa()}}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), dir, &stdout, &stderr, stubs(stub, stub))

	assert.Equal(t, 0, code)
	assert.Equal(t, "Initializing phonemizers...\n"+
		"Testing 1 lines of Japanese text...\n\n"+
		"Line 1: こんにちは\n"+
		"  ✅ Identical phonemization: konnichiwa\n"+
		"  ✅ Same token count: 1\n"+
		"\n"+
		strings.Repeat("=", 50)+"\n"+
		"✅ NO DIFFERENCES - Both engines produce identical results\n", stdout.String())
}

func TestRun_PhonemeDifference(t *testing.T) {
	t.Parallel()
	dir := writeInput(t, "こんにちは\n")
	base := &testutil.StubPhonemizer{Results: map[string]domain.Result{"こんにちは": konnichiwa()}}
	cand := &testutil.StubPhonemizer{Results: map[string]domain.Result{
		"こんにちは": testutil.Result("koɲɲiʨiwa", domain.Token{Text: "こんにちは", Phonemes: "koɲɲiʨiwa", Tag: "感動詞"}),
	}}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), dir, &stdout, &stderr, stubs(base, cand))

	assert.Equal(t, 1, code)
	out := stdout.String()
	assert.Contains(t, out, "  ❌ DIFFERENCE FOUND!\n  Original: konnichiwa\n  New:      koɲɲiʨiwa\n")
	assert.Contains(t, out, "❌ DIFFERENCES FOUND")
	assert.Contains(t, stderr.String(), "differences detected")
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()
	dir := writeInput(t, "\n   \n\n")
	stub := &testutil.StubPhonemizer{}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), dir, &stdout, &stderr, stubs(stub, stub))

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Testing 0 lines of Japanese text...")
	assert.Contains(t, stdout.String(), "✅ NO DIFFERENCES")
	assert.Empty(t, stub.Calls())
}

func TestRun_MissingInput(t *testing.T) {
	t.Parallel()
	stub := &testutil.StubPhonemizer{}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), t.TempDir(), &stdout, &stderr, stubs(stub, stub))

	assert.Equal(t, 1, code)
	assert.Equal(t, "Initializing phonemizers...\nError: test_prompts.txt not found!\n", stdout.String())
	assert.NotContains(t, stdout.String(), "Line ")
}

func TestRun_EngineErrorAndPanic(t *testing.T) {
	t.Parallel()
	dir := writeInput(t, "壊れた\n爆発\nこんにちは\n")
	base := &testutil.StubPhonemizer{
		Results: map[string]domain.Result{"こんにちは": konnichiwa()},
		Errors:  map[string]error{"壊れた": errors.New("analyzer failed")},
		Panics:  map[string]any{"爆発": "nil map"},
	}
	cand := &testutil.StubPhonemizer{Results: map[string]domain.Result{
		"こんにちは": konnichiwa(), "壊れた": konnichiwa(), "爆発": konnichiwa(),
	}}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), dir, &stdout, &stderr, stubs(base, cand))

	assert.Equal(t, 1, code)
	out := stdout.String()
	assert.Contains(t, out, "Line 1: 壊れた\n  ⚠️  Error processing line: analyzer failed\n\n")
	assert.Contains(t, out, "Line 2: 爆発\n  ⚠️  Error processing line: nil map\n\n")
	assert.Contains(t, out, "Line 3: こんにちは\n  ✅ Identical phonemization: konnichiwa\n")
}

func TestRun_InitFailure(t *testing.T) {
	t.Parallel()
	failing := func(context.Context, config.Config, *slog.Logger) (g2p.Phonemizer, g2p.Phonemizer, error) {
		return nil, nil, errors.New("dictionary unavailable")
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), writeInput(t, "こんにちは\n"), &stdout, &stderr, failing)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "dictionary unavailable")
	assert.NotContains(t, stdout.String(), "Line 1")
}
