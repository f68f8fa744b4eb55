// Package queues defines per-queue worker configuration for task-queue partitioning.
package queues

import (
	"fmt"
	"strings"

	"go.temporal.io/sdk/worker"

	"github.com/jag2p/jag2p-go/internal/temporal/versioning"
)

// QueueConfig holds worker options for a single task queue.
type QueueConfig struct {
	Name    string
	Options worker.Options
}

// DefaultConfigs returns the standard per-queue worker options.
//
//   - QueueRegression: workflows plus CPU-bound comparison batches
//   - QueuePublish: CloudWatch writes, tight concurrency
func DefaultConfigs() map[string]QueueConfig {
	return map[string]QueueConfig{
		versioning.QueueRegression: {
			Name: versioning.QueueRegression,
			Options: worker.Options{
				MaxConcurrentActivityExecutionSize:     4,
				MaxConcurrentWorkflowTaskExecutionSize: 10,
			},
		},
		versioning.QueuePublish: {
			Name: versioning.QueuePublish,
			Options: worker.Options{
				MaxConcurrentActivityExecutionSize:     2,
				MaxConcurrentWorkflowTaskExecutionSize: 1,
			},
		},
	}
}

// ParseQueues parses a comma-separated queue list (e.g. "regression,publish")
// into a set of queue names. Accepts both short names ("publish") and
// full names ("jag2p-publish"). An empty list selects every queue.
func ParseQueues(raw string) ([]string, error) {
	all := []string{versioning.QueueRegression, versioning.QueuePublish}
	if raw == "" {
		return all, nil
	}

	shortNames := map[string]string{
		"regression": versioning.QueueRegression,
		"publish":    versioning.QueuePublish,
	}
	fullNames := map[string]bool{
		versioning.QueueRegression: true,
		versioning.QueuePublish:    true,
	}

	seen := make(map[string]bool)
	var result []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if full, ok := shortNames[name]; ok {
			name = full
		}
		if !fullNames[name] {
			return nil, fmt.Errorf("unknown queue %q", name)
		}
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	if len(result) == 0 {
		return all, nil
	}
	return result, nil
}
