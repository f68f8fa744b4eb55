// Package cloudwatch publishes regression summaries as CloudWatch custom
// metrics.
package cloudwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/jag2p/jag2p-go/internal/domain"
)

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "JaG2P/Regression"

// API is the subset of the CloudWatch client used by this package.
type API interface {
	PutMetricData(ctx context.Context, params *cw.PutMetricDataInput, optFns ...func(*cw.Options)) (*cw.PutMetricDataOutput, error)
}

// Waiter throttles outbound calls; *ratelimit.ServiceLimiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context, service string) error
}

// Publisher writes regression metrics to one namespace.
type Publisher struct {
	api       API
	namespace string
	limiter   Waiter
	now       func() time.Time
}

// New creates a Publisher from an AWS config.
func New(cfg aws.Config, namespace string, limiter Waiter) *Publisher {
	return NewFromAPI(cw.NewFromConfig(cfg), namespace, limiter)
}

// NewFromAPI creates a Publisher from an explicit API implementation (for testing).
func NewFromAPI(api API, namespace string, limiter Waiter) *Publisher {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Publisher{api: api, namespace: namespace, limiter: limiter, now: time.Now}
}

// Publish records the summary of one regression run. Every datum carries the
// Baseline and Candidate backend dimensions.
func (p *Publisher) Publish(ctx context.Context, baseline, candidate domain.Backend, s domain.Summary) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, "CloudWatch"); err != nil {
			return fmt.Errorf("cloudwatch: %w", err)
		}
	}

	dims := []cwtypes.Dimension{
		{Name: aws.String("Baseline"), Value: aws.String(string(baseline))},
		{Name: aws.String("Candidate"), Value: aws.String(string(candidate))},
	}
	ts := aws.Time(p.now().UTC())
	datum := func(name string, v int) cwtypes.MetricDatum {
		return cwtypes.MetricDatum{
			MetricName: aws.String(name),
			Dimensions: dims,
			Timestamp:  ts,
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(float64(v)),
		}
	}

	_, err := p.api.PutMetricData(ctx, &cw.PutMetricDataInput{
		Namespace: aws.String(p.namespace),
		MetricData: []cwtypes.MetricDatum{
			datum("LinesTested", s.LinesTested),
			datum("Differences", s.Differences),
			datum("Errors", s.Errors),
		},
	})
	if err != nil {
		return fmt.Errorf("cloudwatch: put metric data: %w", err)
	}
	return nil
}
