// Command g2p phonemizes text and manages regression runs.
//
// Usage:
//
//	g2p phonemize [--backend B] [--inventory I] TEXT...
//	g2p trigger   --file FILE [--baseline B] [--candidate C] [--batch-size N]
//	g2p status    --workflow-id WID
//	g2p list      [--status S]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/config"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// Logs go to stderr; stdout is for results.
	observability.InitLoggerTo(os.Stderr, cfg.LogLevel)

	ctx := context.Background()
	switch os.Args[1] {
	case "phonemize":
		err = cmdPhonemize(ctx, cfg, os.Args[2:], os.Stdout)
	case "trigger":
		err = withQuerier(cfg, func(q querier.WorkflowQuerier) error {
			return cmdTrigger(ctx, cfg, q, os.Args[2:], os.Stdout)
		})
	case "status":
		err = withQuerier(cfg, func(q querier.WorkflowQuerier) error {
			return cmdStatus(ctx, q, os.Args[2:], os.Stdout)
		})
	case "list":
		err = withQuerier(cfg, func(q querier.WorkflowQuerier) error {
			return cmdList(ctx, cfg, q, os.Args[2:], os.Stdout)
		})
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: g2p <phonemize|trigger|status|list> [flags]")
	os.Exit(1)
}

func withQuerier(cfg config.Config, fn func(querier.WorkflowQuerier) error) error {
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		return fmt.Errorf("unable to create Temporal client: %w", err)
	}
	defer c.Close()
	return fn(querier.New(c))
}

func cmdPhonemize(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("phonemize", flag.ContinueOnError)
	backend := fs.String("backend", string(cfg.BaselineBackend), "backend: kagome-ipa, kagome-uni or goruut")
	inventory := fs.String("inventory", string(cfg.Inventory), "phoneme inventory: ipa or romaji")
	tokens := fs.Bool("tokens", false, "print tokens as JSON instead of the phoneme string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if text == "" {
		fs.Usage()
		return fmt.Errorf("phonemize: text required")
	}

	ec := cfg.EngineConfig(domain.Backend(*backend))
	ec.Inventory = domain.Inventory(*inventory)
	e, err := g2p.New(ctx, ec)
	if err != nil {
		return err
	}
	res, err := e.Phonemize(ctx, text)
	if err != nil {
		return err
	}
	if *tokens {
		return printJSON(out, res)
	}
	_, err = fmt.Fprintln(out, res.Phonemes)
	return err
}

func cmdTrigger(ctx context.Context, cfg config.Config, q querier.WorkflowQuerier, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("trigger", flag.ContinueOnError)
	file := fs.String("file", compare.InputFile, "input file, one sentence per line")
	baseline := fs.String("baseline", string(cfg.BaselineBackend), "baseline backend")
	candidate := fs.String("candidate", string(cfg.CandidateBackend), "candidate backend")
	batch := fs.Int("batch-size", cfg.BatchSize, "lines per comparison batch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lines, err := compare.LoadLines(*file)
	if err != nil {
		return err
	}
	input := workflows.RegressionInput{
		Lines:        lines,
		Baseline:     cfg.EngineConfig(domain.Backend(*baseline)),
		Candidate:    cfg.EngineConfig(domain.Backend(*candidate)),
		BatchSize:    *batch,
		PublishQueue: cfg.PublishQueue,
	}
	for _, ec := range []g2p.EngineConfig{input.Baseline, input.Candidate} {
		if err := ec.Validate(); err != nil {
			return err
		}
	}

	sum, err := q.StartRegression(ctx, querier.StartOptions{
		WorkflowID: "regression-" + uuid.NewString(),
		TaskQueue:  cfg.TemporalTaskQueue,
	}, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "started workflow %s (run=%s, lines=%d)\n", sum.WorkflowID, sum.RunID, len(lines))
	return err
}

func cmdStatus(ctx context.Context, q querier.WorkflowQuerier, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	wfID := fs.String("workflow-id", "", "workflow ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *wfID == "" {
		fs.Usage()
		return fmt.Errorf("status: --workflow-id required")
	}

	desc, err := q.DescribeWorkflow(ctx, *wfID)
	if err != nil {
		return err
	}
	status := map[string]any{"workflow": desc}
	if state, err := q.GetRegressionState(ctx, *wfID); err == nil {
		status["progress"] = map[string]any{
			"phase":       state.Phase,
			"lines_done":  state.LinesDone,
			"lines_total": state.LinesTotal,
			"summary":     state.Report.Summary,
			"published":   state.Published,
		}
	}
	return printJSON(out, status)
}

func cmdList(ctx context.Context, cfg config.Config, q querier.WorkflowQuerier, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status (Running, Completed, Failed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runs, err := q.ListWorkflows(ctx, querier.ListOptions{
		TaskQueue:    cfg.TemporalTaskQueue,
		StatusFilter: *status,
	})
	if err != nil {
		return err
	}
	return printJSON(out, runs)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
