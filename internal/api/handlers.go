package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jag2p/jag2p-go/internal/compare"
	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
	"github.com/jag2p/jag2p-go/internal/temporal/versioning"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
	"github.com/jag2p/jag2p-go/internal/uischema"
)

// MaxCompareLines bounds a synchronous /compare request. Longer inputs
// belong in a regression run.
const MaxCompareLines = 500

// engineRequest overrides parts of a default engine configuration.
type engineRequest struct {
	Backend     domain.Backend   `json:"backend,omitempty"`
	Inventory   domain.Inventory `json:"inventory,omitempty"`
	Devoice     *bool            `json:"devoice,omitempty"`
	AccentMarks *bool            `json:"accent_marks,omitempty"`
}

func (e *engineRequest) apply(base g2p.EngineConfig) g2p.EngineConfig {
	if e == nil {
		return base
	}
	if e.Backend != "" {
		base.Backend = e.Backend
	}
	if e.Inventory != "" {
		base.Inventory = e.Inventory
	}
	if e.Devoice != nil {
		base.Devoice = *e.Devoice
	}
	if e.AccentMarks != nil {
		base.AccentMarks = *e.AccentMarks
	}
	return base
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBackends(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"backends":    domain.Backends(),
		"inventories": domain.Inventories(),
		"baseline":    s.deps.Baseline,
		"candidate":   s.deps.Candidate,
	})
}

func (s *Server) handlePhonemize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
		engineRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.spend(w, r, "phonemize") {
		return
	}

	p, err := s.deps.Engines.Get(r.Context(), body.engineRequest.apply(s.deps.Baseline))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	res, err := p.Phonemize(r.Context(), body.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lines     []string       `json:"lines"`
		Baseline  *engineRequest `json:"baseline,omitempty"`
		Candidate *engineRequest `json:"candidate,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lines := compare.NormalizeLines(body.Lines)
	if len(lines) > MaxCompareLines {
		writeError(w, http.StatusRequestEntityTooLarge, "too many lines; start a regression run instead")
		return
	}
	if !s.spend(w, r, "compare") {
		return
	}

	b, c, err := s.deps.Engines.Pair(r.Context(),
		body.Baseline.apply(s.deps.Baseline),
		body.Candidate.apply(s.deps.Candidate),
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	rep, err := compare.Run(r.Context(), b, c, lines)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListRegressions(w http.ResponseWriter, r *http.Request) {
	opts := querier.ListOptions{
		TaskQueue: s.taskQueue(),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		opts.StatusFilter = status
	}

	runs, err := s.deps.Querier.ListWorkflows(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleStartRegression(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Lines     []string       `json:"lines"`
		Baseline  *engineRequest `json:"baseline,omitempty"`
		Candidate *engineRequest `json:"candidate,omitempty"`
		BatchSize int            `json:"batch_size,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := workflows.RegressionInput{
		Lines:        compare.NormalizeLines(body.Lines),
		Baseline:     body.Baseline.apply(s.deps.Baseline),
		Candidate:    body.Candidate.apply(s.deps.Candidate),
		BatchSize:    body.BatchSize,
		PublishQueue: s.deps.PublishQueue,
	}
	if len(input.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "'lines' must contain at least one non-blank line")
		return
	}
	for _, cfg := range []g2p.EngineConfig{input.Baseline, input.Candidate} {
		if err := cfg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if !s.spend(w, r, "regression") {
		return
	}

	sum, err := s.deps.Querier.StartRegression(r.Context(), querier.StartOptions{
		WorkflowID: "regression-" + uuid.NewString(),
		TaskQueue:  s.taskQueue(),
	}, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, sum)
}

func (s *Server) handleGetRegression(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "workflow id required")
		return
	}

	result, err := s.deps.Querier.GetRegressionState(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRegressionUI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "workflow id required")
		return
	}

	result, err := s.deps.Querier.GetRegressionState(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, uischema.Build(id, *result))
}

func (s *Server) taskQueue() string {
	if s.deps.TaskQueue != "" {
		return s.deps.TaskQueue
	}
	return versioning.QueueRegression
}

// spend charges op to the caller's budget, answering 429 when it is gone.
func (s *Server) spend(w http.ResponseWriter, r *http.Request, op string) bool {
	if s.deps.Budget == nil {
		return true
	}
	if err := s.deps.Budget.Spend(clientKey(r), op); err != nil {
		if errors.Is(err, ratelimit.ErrBudgetExceeded) {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, g2p.ErrUnknownBackend) || errors.Is(err, g2p.ErrUnknownInventory) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
