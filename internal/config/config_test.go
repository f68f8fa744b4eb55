package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jag2p/jag2p-go/internal/domain"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.BackendKagomeIPA, cfg.BaselineBackend)
	assert.Equal(t, domain.BackendKagomeUni, cfg.CandidateBackend)
	assert.Equal(t, domain.InventoryIPA, cfg.Inventory)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.False(t, cfg.OIDCEnabled())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JAG2P_BASELINE_BACKEND", "goruut")
	t.Setenv("JAG2P_INVENTORY", "romaji")
	t.Setenv("JAG2P_DEVOICE", "true")
	t.Setenv("JAG2P_RATE_LIMIT_RPS", "2.5")
	t.Setenv("JAG2P_REQUEST_BUDGET", "50")
	t.Setenv("JAG2P_BUDGET_WINDOW", "10m")
	t.Setenv("JAG2P_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JAG2P_OIDC_ISSUER", "https://issuer.example")
	t.Setenv("JAG2P_WORKER_QUEUES", "publish")
	t.Setenv("JAG2P_BATCH_SIZE", "200")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendGoruut, cfg.BaselineBackend)
	assert.Equal(t, domain.InventoryRomaji, cfg.Inventory)
	assert.True(t, cfg.Devoice)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 50, cfg.RequestBudget)
	assert.Equal(t, 10*time.Minute, cfg.BudgetWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.OIDCEnabled())
	assert.Equal(t, "publish", cfg.WorkerQueues)
	assert.Equal(t, 200, cfg.BatchSize)
	assert.Equal(t, "jag2p-publish", cfg.PublishQueue)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"JAG2P_BASELINE_BACKEND", "espeak", "invalid JAG2P_BASELINE_BACKEND"},
		{"JAG2P_CANDIDATE_BACKEND", "x", "invalid JAG2P_CANDIDATE_BACKEND"},
		{"JAG2P_INVENTORY", "xsampa", "invalid JAG2P_INVENTORY"},
		{"JAG2P_OTEL_ENABLED", "maybe", "invalid JAG2P_OTEL_ENABLED"},
		{"JAG2P_RATE_LIMIT_BURST", "ten", "invalid JAG2P_RATE_LIMIT_BURST"},
		{"JAG2P_BUDGET_WINDOW", "soon", "invalid JAG2P_BUDGET_WINDOW"},
		{"JAG2P_RATE_LIMIT_RPS", "0", "rate limit must be positive"},
		{"JAG2P_BATCH_SIZE", "0", "invalid JAG2P_BATCH_SIZE"},
		{"JAG2P_BATCH_SIZE", "many", "invalid JAG2P_BATCH_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JAG2P_LOG_LEVEL", "JAG2P_OTEL_ENABLED", "JAG2P_LEXICON_PATH",
		"JAG2P_BASELINE_BACKEND", "JAG2P_CANDIDATE_BACKEND", "JAG2P_INVENTORY",
		"JAG2P_DEVOICE", "JAG2P_ACCENT_MARKS", "JAG2P_UNKNOWN_MARKER",
		"JAG2P_API_PORT", "JAG2P_CORS_ORIGINS", "JAG2P_OIDC_ISSUER", "JAG2P_OIDC_AUDIENCE",
		"JAG2P_RATE_LIMIT_RPS", "JAG2P_RATE_LIMIT_BURST", "JAG2P_REQUEST_BUDGET", "JAG2P_BUDGET_WINDOW",
		"AWS_REGION", "AWS_PROFILE", "JAG2P_AWS_REGION", "JAG2P_AWS_PROFILE", "JAG2P_AWS_ROLE_ARN",
		"JAG2P_CLOUDWATCH_NAMESPACE", "JAG2P_TEMPORAL_ADDRESS", "JAG2P_TEMPORAL_TASK_QUEUE",
		"JAG2P_PUBLISH_QUEUE", "JAG2P_WORKER_QUEUES", "JAG2P_BATCH_SIZE",
	} {
		// t.Setenv saves the current value and restores it on cleanup.
		// Setting to "" then unsetting ensures the key is absent during the test.
		orig, wasSet := os.LookupEnv(key)
		if wasSet {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := Default()
	cfg.Inventory = domain.InventoryRomaji
	cfg.AccentMarks = true
	cfg.LexiconPath = "/etc/jag2p/lexicon.tsv"

	ec := cfg.EngineConfig(domain.BackendGoruut)
	assert.Equal(t, domain.BackendGoruut, ec.Backend)
	assert.Equal(t, domain.InventoryRomaji, ec.Inventory)
	assert.True(t, ec.AccentMarks)
	assert.Equal(t, "/etc/jag2p/lexicon.tsv", ec.LexiconPath)
	assert.NoError(t, ec.Validate())
}
