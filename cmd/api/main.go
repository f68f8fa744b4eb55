// Command api runs the HTTP API server for the phonemizer and regression runs.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/client"

	"github.com/jag2p/jag2p-go/internal/api"
	"github.com/jag2p/jag2p-go/internal/config"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel)
	temporalLogger := observability.NewTemporalSlogAdapter(logger)

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(context.Background(), "jag2p-api")
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("metrics init failed", "error", err)
		os.Exit(1)
	}

	deps := api.Deps{
		Engines:      g2p.NewRegistry(g2p.WithLogger(logger), g2p.WithMetrics(metrics)),
		Baseline:     cfg.EngineConfig(cfg.BaselineBackend),
		Candidate:    cfg.EngineConfig(cfg.CandidateBackend),
		TaskQueue:    cfg.TemporalTaskQueue,
		PublishQueue: cfg.PublishQueue,
		Limiter:      ratelimit.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Budget:       ratelimit.NewRequestBudget(cfg.RequestBudget, cfg.BudgetWindow),
	}

	// Regression routes need Temporal; without an address they answer 503.
	if cfg.TemporalAddress != "" {
		c, err := client.Dial(client.Options{
			HostPort: cfg.TemporalAddress,
			Logger:   temporalLogger,
		})
		if err != nil {
			logger.Error("unable to create Temporal client", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		deps.Querier = querier.New(c)
	}

	oidcCfg := api.OIDCConfig{
		IssuerURL: cfg.OIDCIssuer,
		Audience:  cfg.OIDCAudience,
		Enabled:   cfg.OIDCEnabled(),
	}
	srv, err := api.New(deps, cfg.CORSOrigins, oidcCfg)
	if err != nil {
		logger.Error("api init failed", "error", err)
		os.Exit(1)
	}

	var handler http.Handler = srv
	if cfg.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "jag2p-api")
	}

	addr := ":" + cfg.APIPort
	logger.Info("starting API server",
		"addr", addr,
		"oidc_enabled", oidcCfg.Enabled,
		"regressions_enabled", deps.Querier != nil,
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
