// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jag2p/jag2p-go/internal/domain"
	"github.com/jag2p/jag2p-go/internal/g2p"
)

// Config holds all application configuration.
type Config struct {
	LogLevel    string
	OTelEnabled bool

	// Engine settings.
	LexiconPath      string
	BaselineBackend  domain.Backend
	CandidateBackend domain.Backend
	Inventory        domain.Inventory
	Devoice          bool
	AccentMarks      bool
	UnknownMarker    string

	// API server settings.
	APIPort        string
	CORSOrigins    []string
	OIDCIssuer     string
	OIDCAudience   string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestBudget  int
	BudgetWindow   time.Duration

	// Regression metrics export.
	AWSRegion           string
	AWSProfile          string
	AWSRoleARN          string
	CloudWatchNamespace string

	// Regression runs.
	TemporalAddress   string
	TemporalTaskQueue string
	PublishQueue      string
	WorkerQueues      string
	BatchSize         int
}

// Default returns the built-in configuration without consulting the
// environment.
func Default() Config {
	return Config{
		LogLevel:          "info",
		BaselineBackend:   domain.BackendKagomeIPA,
		CandidateBackend:  domain.BackendKagomeUni,
		Inventory:         domain.InventoryIPA,
		APIPort:           "8080",
		CORSOrigins:       []string{"*"},
		RateLimitRPS:      5,
		RateLimitBurst:    10,
		RequestBudget:     1000,
		BudgetWindow:      time.Hour,
		AWSRegion:         "us-east-1",
		TemporalTaskQueue: "jag2p-regression",
		PublishQueue:      "jag2p-publish",
		BatchSize:         50,
	}
}

// LoadFromEnv reads configuration from environment variables, falling back to
// Default for anything unset.
func LoadFromEnv() (Config, error) {
	def := Default()
	cfg := Config{
		LogLevel:            envOr("JAG2P_LOG_LEVEL", def.LogLevel),
		LexiconPath:         os.Getenv("JAG2P_LEXICON_PATH"),
		BaselineBackend:     domain.Backend(envOr("JAG2P_BASELINE_BACKEND", string(def.BaselineBackend))),
		CandidateBackend:    domain.Backend(envOr("JAG2P_CANDIDATE_BACKEND", string(def.CandidateBackend))),
		Inventory:           domain.Inventory(envOr("JAG2P_INVENTORY", string(def.Inventory))),
		UnknownMarker:       os.Getenv("JAG2P_UNKNOWN_MARKER"),
		APIPort:             envOr("JAG2P_API_PORT", def.APIPort),
		CORSOrigins:         parseCORSOrigins(os.Getenv("JAG2P_CORS_ORIGINS")),
		OIDCIssuer:          os.Getenv("JAG2P_OIDC_ISSUER"),
		OIDCAudience:        os.Getenv("JAG2P_OIDC_AUDIENCE"),
		AWSRegion:           envOr("AWS_REGION", envOr("JAG2P_AWS_REGION", def.AWSRegion)),
		AWSProfile:          envOr("JAG2P_AWS_PROFILE", os.Getenv("AWS_PROFILE")),
		AWSRoleARN:          os.Getenv("JAG2P_AWS_ROLE_ARN"),
		CloudWatchNamespace: os.Getenv("JAG2P_CLOUDWATCH_NAMESPACE"),
		TemporalAddress:     os.Getenv("JAG2P_TEMPORAL_ADDRESS"),
		TemporalTaskQueue:   envOr("JAG2P_TEMPORAL_TASK_QUEUE", def.TemporalTaskQueue),
		PublishQueue:        envOr("JAG2P_PUBLISH_QUEUE", def.PublishQueue),
		WorkerQueues:        os.Getenv("JAG2P_WORKER_QUEUES"),
	}

	var err error
	if cfg.OTelEnabled, err = envBool("JAG2P_OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.Devoice, err = envBool("JAG2P_DEVOICE", false); err != nil {
		return Config{}, err
	}
	if cfg.AccentMarks, err = envBool("JAG2P_ACCENT_MARKS", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = envFloat("JAG2P_RATE_LIMIT_RPS", def.RateLimitRPS); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = envInt("JAG2P_RATE_LIMIT_BURST", def.RateLimitBurst); err != nil {
		return Config{}, err
	}
	if cfg.RequestBudget, err = envInt("JAG2P_REQUEST_BUDGET", def.RequestBudget); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize, err = envInt("JAG2P_BATCH_SIZE", def.BatchSize); err != nil {
		return Config{}, err
	}
	cfg.BudgetWindow = def.BudgetWindow
	if raw := os.Getenv("JAG2P_BUDGET_WINDOW"); raw != "" {
		if cfg.BudgetWindow, err = time.ParseDuration(raw); err != nil {
			return Config{}, fmt.Errorf("config: invalid JAG2P_BUDGET_WINDOW %q: %w", raw, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unrecognized backends and inventories.
func (c Config) Validate() error {
	if !c.BaselineBackend.Valid() {
		return fmt.Errorf("config: invalid JAG2P_BASELINE_BACKEND %q", c.BaselineBackend)
	}
	if !c.CandidateBackend.Valid() {
		return fmt.Errorf("config: invalid JAG2P_CANDIDATE_BACKEND %q", c.CandidateBackend)
	}
	if !c.Inventory.Valid() {
		return fmt.Errorf("config: invalid JAG2P_INVENTORY %q (must be ipa or romaji)", c.Inventory)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("config: rate limit must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: invalid JAG2P_BATCH_SIZE %d", c.BatchSize)
	}
	return nil
}

// OIDCEnabled reports whether bearer-token auth is configured.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func parseCORSOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// EngineConfig returns the engine settings for backend b.
func (c Config) EngineConfig(b domain.Backend) g2p.EngineConfig {
	return g2p.EngineConfig{
		Backend:     b,
		Inventory:   c.Inventory,
		Devoice:     c.Devoice,
		AccentMarks: c.AccentMarks,
		Unknown:     c.UnknownMarker,
		LexiconPath: c.LexiconPath,
	}
}
