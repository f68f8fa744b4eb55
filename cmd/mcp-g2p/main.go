// Command mcp-g2p runs the MCP tool server for phonemization and regression
// runs. Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.temporal.io/sdk/client"

	"github.com/jag2p/jag2p-go/internal/config"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/mcpserver"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// stdout carries the MCP protocol.
	logger := observability.InitLoggerTo(os.Stderr, cfg.LogLevel)

	deps := mcpserver.Deps{
		Engines:   g2p.NewRegistry(g2p.WithLogger(logger)),
		Baseline:  cfg.EngineConfig(cfg.BaselineBackend),
		Candidate: cfg.EngineConfig(cfg.CandidateBackend),
		TaskQueue: cfg.TemporalTaskQueue,
	}

	if cfg.TemporalAddress != "" {
		c, err := client.Dial(client.Options{
			HostPort: cfg.TemporalAddress,
			Logger:   observability.NewTemporalSlogAdapter(logger),
		})
		if err != nil {
			log.Fatalf("unable to create Temporal client: %v", err)
		}
		defer c.Close()
		deps.Querier = querier.New(c)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jag2p",
		Version: "v1.0.0",
	}, nil)
	mcpserver.RegisterTools(server, deps)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
