// Package api serves the phonemizer and regression runs over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/jag2p/jag2p-go/internal/agui"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
)

// EngineSource hands out engines by configuration. Implemented by
// g2p.Registry.
type EngineSource interface {
	Get(ctx context.Context, cfg g2p.EngineConfig) (g2p.Phonemizer, error)
	Pair(ctx context.Context, baseline, candidate g2p.EngineConfig) (g2p.Phonemizer, g2p.Phonemizer, error)
}

// Deps bundles what the server needs. Querier may be nil, in which case the
// regression routes answer 503. Limiter and Budget may be nil to disable
// throttling.
type Deps struct {
	Engines EngineSource
	Querier querier.WorkflowQuerier

	Baseline  g2p.EngineConfig
	Candidate g2p.EngineConfig

	// TaskQueue receives new regression workflows; PublishQueue, when set,
	// receives their PublishSummary activity.
	TaskQueue    string
	PublishQueue string

	Limiter *ratelimit.ClientLimiter
	Budget  *ratelimit.RequestBudget
}

// Server is the HTTP API server.
type Server struct {
	deps    Deps
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a Server. When oidcCfg is enabled the issuer is discovered
// immediately and every route but health requires a bearer token.
func New(deps Deps, corsOrigins []string, oidcCfg OIDCConfig) (*Server, error) {
	if deps.Engines == nil {
		return nil, fmt.Errorf("api: engine source required")
	}
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.routes()

	var h http.Handler = s.mux
	h = rateLimit(deps.Limiter, h)
	if oidcCfg.Enabled {
		provider, err := oidc.NewProvider(context.Background(), oidcCfg.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery: %w", err)
		}
		h = oidcAuth(provider, oidcCfg.Audience)(h)
	}
	s.handler = requestID(logging(cors(corsOrigins, h)))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/backends", s.handleBackends)
	s.mux.HandleFunc("POST /api/v1/phonemize", s.handlePhonemize)
	s.mux.HandleFunc("POST /api/v1/compare", s.handleCompare)

	s.mux.HandleFunc("GET /api/v1/regressions", s.needQuerier(s.handleListRegressions))
	s.mux.HandleFunc("POST /api/v1/regressions", s.needQuerier(s.handleStartRegression))
	s.mux.HandleFunc("GET /api/v1/regressions/{id}", s.needQuerier(s.handleGetRegression))
	s.mux.HandleFunc("GET /api/v1/regressions/{id}/ui", s.needQuerier(s.handleGetRegressionUI))
	if s.deps.Querier != nil {
		s.mux.HandleFunc("GET /api/v1/regressions/{id}/stream", agui.StreamHandler(s.deps.Querier, agui.DefaultConfig()))
	} else {
		s.mux.HandleFunc("GET /api/v1/regressions/{id}/stream", s.needQuerier(nil))
	}
}

func (s *Server) needQuerier(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Querier == nil {
			writeError(w, http.StatusServiceUnavailable, "regression runs are not configured")
			return
		}
		next(w, r)
	}
}
