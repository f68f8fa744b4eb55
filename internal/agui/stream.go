package agui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jag2p/jag2p-go/internal/temporal/querier"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
	"github.com/jag2p/jag2p-go/internal/uischema"
)

// StreamConfig controls SSE stream behavior.
type StreamConfig struct {
	PollInterval time.Duration
	MaxDuration  time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() StreamConfig {
	return StreamConfig{
		PollInterval: 2 * time.Second,
		MaxDuration:  30 * time.Minute,
	}
}

// StreamHandler serves SSE events for a regression run's progress.
func StreamHandler(q querier.WorkflowQuerier, cfg StreamConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wfID := r.PathValue("id")
		if wfID == "" {
			http.Error(w, "workflow id required", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ctx, cancel := context.WithTimeout(r.Context(), cfg.MaxDuration)
		defer cancel()

		emit := func(t EventType, data any) {
			writeSSE(w, flusher, Event{
				Type:       t,
				Timestamp:  time.Now().UTC(),
				WorkflowID: wfID,
				Data:       data,
			})
		}

		emit(EventRunStarted, nil)

		result, err := q.GetRegressionState(ctx, wfID)
		if err != nil {
			emit(EventRunError, ErrorData{Message: err.Error()})
			return
		}

		emit(EventStateSnapshot, StateSnapshotData{
			Phase:    string(result.Phase),
			State:    result,
			UISchema: uischema.Build(wfID, *result),
		})

		if result.Phase == workflows.PhaseCompleted {
			emit(EventRunFinished, finishedData(result))
			return
		}
		last := *result

		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				result, err = q.GetRegressionState(ctx, wfID)
				if err != nil {
					emit(EventRunError, ErrorData{Message: err.Error()})
					return
				}

				if result.Phase != last.Phase {
					emit(EventStepFinished, StepData{Phase: string(last.Phase), LinesDone: result.LinesDone, LinesTotal: result.LinesTotal})
					emit(EventStepStarted, StepData{Phase: string(result.Phase), LinesDone: result.LinesDone, LinesTotal: result.LinesTotal})
				}

				if patches := computePatches(last, *result); len(patches) > 0 {
					emit(EventStateDelta, StateDeltaData{
						Phase:    string(result.Phase),
						Patches:  patches,
						UISchema: uischema.Build(wfID, *result),
					})
				}

				if result.Phase == workflows.PhaseCompleted {
					emit(EventRunFinished, finishedData(result))
					return
				}
				last = *result
			}
		}
	}
}

func finishedData(r *workflows.RegressionResult) map[string]any {
	return map[string]any{
		"all_match": r.Report.Summary.AllMatch,
		"published": r.Published,
	}
}

// computePatches emits replace/add operations for the fields that moved
// between two polls. New outcomes are appended one patch each.
func computePatches(prev, cur workflows.RegressionResult) []Patch {
	var patches []Patch
	if cur.Phase != prev.Phase {
		patches = append(patches, Patch{Op: "replace", Path: "/phase", Value: cur.Phase})
	}
	if cur.LinesDone != prev.LinesDone {
		patches = append(patches, Patch{Op: "replace", Path: "/lines_done", Value: cur.LinesDone})
	}
	if cur.Published != prev.Published {
		patches = append(patches, Patch{Op: "replace", Path: "/published", Value: cur.Published})
	}
	if n := len(prev.Report.Outcomes); len(cur.Report.Outcomes) > n {
		for _, o := range cur.Report.Outcomes[n:] {
			patches = append(patches, Patch{Op: "add", Path: "/report/outcomes/-", Value: o})
		}
	}
	if cur.Report.Summary != prev.Report.Summary {
		patches = append(patches, Patch{Op: "replace", Path: "/report/summary", Value: cur.Report.Summary})
	}
	return patches
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	flusher.Flush()
}
