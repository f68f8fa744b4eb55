// g2p-compare runs the baseline and candidate G2P engines over every line of
// test_prompts.txt in the working directory and prints a per-line report.
// Exit code 0 = every line matched. Exit code 1 = any difference, error, or
// missing input.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/config"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
)

// engineFactory builds the baseline and candidate engines.
type engineFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (g2p.Phonemizer, g2p.Phonemizer, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, ".", os.Stdout, os.Stderr, newEngines)
	stop()
	os.Exit(code)
}

func newEngines(ctx context.Context, cfg config.Config, logger *slog.Logger) (g2p.Phonemizer, g2p.Phonemizer, error) {
	b, c, err := g2p.NewPair(ctx,
		cfg.EngineConfig(cfg.BaselineBackend),
		cfg.EngineConfig(cfg.CandidateBackend),
		g2p.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return b, c, nil
}

// run executes the harness against dir/test_prompts.txt and returns the
// process exit code. The report goes to stdout, logs to stderr.
func run(ctx context.Context, dir string, stdout, stderr io.Writer, build engineFactory) int {
	cfg := config.Default()
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: observability.ParseLevel(cfg.LogLevel)}))
	pr := compare.NewPrinter(stdout)

	pr.Initializing()
	logger.Info("initializing engines", "baseline", cfg.BaselineBackend, "candidate", cfg.CandidateBackend)
	baseline, candidate, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("engine initialization failed", "error", err)
		pr.InitFailed(err)
		return 1
	}

	lines, err := compare.LoadLines(filepath.Join(dir, compare.InputFile))
	if err != nil {
		if errors.Is(err, compare.ErrInputNotFound) {
			pr.InputNotFound()
		} else {
			logger.Error("read input failed", "error", err)
		}
		return 1
	}

	pr.Header(len(lines))
	rep, err := compare.Run(ctx, baseline, candidate, lines, compare.WithObserver(pr.Outcome))
	if err != nil {
		logger.Error("comparison interrupted", "error", err, "lines_done", len(rep.Outcomes))
		return 1
	}
	pr.Summary(rep.Summary)

	if err := pr.Err(); err != nil {
		logger.Error("write report failed", "error", err)
		return 1
	}
	if !rep.Summary.AllMatch {
		logger.Warn("differences detected",
			"lines", rep.Summary.LinesTested,
			"differences", rep.Summary.Differences,
			"errors", rep.Summary.Errors,
		)
		return 1
	}
	logger.Info("all lines match", "lines", rep.Summary.LinesTested)
	return 0
}
