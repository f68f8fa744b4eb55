// Command worker-g2p runs the Temporal worker for regression runs.
// CloudWatch publishing is enabled when JAG2P_CLOUDWATCH_NAMESPACE is set.
package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/jag2p/jag2p-go/internal/config"
	awsauth "github.com/jag2p/jag2p-go/internal/connectors/aws"
	"github.com/jag2p/jag2p-go/internal/connectors/aws/cloudwatch"
	"github.com/jag2p/jag2p-go/internal/g2p"
	"github.com/jag2p/jag2p-go/internal/observability"
	"github.com/jag2p/jag2p-go/internal/ratelimit"
	"github.com/jag2p/jag2p-go/internal/temporal/activities"
	"github.com/jag2p/jag2p-go/internal/temporal/queues"
	"github.com/jag2p/jag2p-go/internal/temporal/versioning"
	"github.com/jag2p/jag2p-go/internal/temporal/workflows"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := observability.InitLogger(cfg.LogLevel)
	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, "jag2p-worker")
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	acts := &activities.Activities{
		Engines: g2p.NewRegistry(g2p.WithLogger(logger), g2p.WithMetrics(metrics)),
		Metrics: metrics,
		Budget:  ratelimit.NewRequestBudget(cfg.RequestBudget, cfg.BudgetWindow),
	}

	if cfg.CloudWatchNamespace != "" {
		awsCfg, err := awsauth.NewAWSConfig(ctx, cfg.AWSRegion, cfg.AWSProfile, cfg.AWSRoleARN)
		if err != nil {
			log.Fatalf("aws config: %v", err)
		}
		limiter := ratelimit.NewServiceLimiter(ratelimit.DefaultServiceRates())
		arn, err := awsauth.CallerIdentity(ctx, sts.NewFromConfig(awsCfg), limiter)
		if err != nil {
			log.Fatalf("aws identity: %v", err)
		}
		acts.Publisher = cloudwatch.New(awsCfg, cfg.CloudWatchNamespace, limiter)
		logger.Info("cloudwatch publishing enabled", "namespace", cfg.CloudWatchNamespace, "identity", arn)
	}

	names, err := queues.ParseQueues(cfg.WorkerQueues)
	if err != nil {
		log.Fatalf("queues: %v", err)
	}

	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalAddress,
		Logger:   observability.NewTemporalSlogAdapter(logger),
	})
	if err != nil {
		log.Fatalf("unable to create Temporal client: %v", err)
	}
	defer c.Close()

	configs := queues.DefaultConfigs()
	var workers []worker.Worker
	for _, name := range names {
		w := worker.New(c, name, configs[name].Options)
		if name == versioning.QueueRegression {
			w.RegisterWorkflow(workflows.RegressionWorkflow)
		}
		w.RegisterActivity(acts)
		if err := w.Start(); err != nil {
			log.Fatalf("worker %s failed to start: %v", name, err)
		}
		workers = append(workers, w)
		logger.Info("worker started", "queue", name)
	}

	<-worker.InterruptCh()
	for _, w := range workers {
		w.Stop()
	}
	logger.Info("workers stopped")
	os.Exit(0)
}
