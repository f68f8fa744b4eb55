// Package versioning defines workflow versions and task queue names.
package versioning

const (
	// Workflow versions for determinism tracking.
	RegressionV1 = "regression-v1"

	// Task queues. Comparison batches run next to the workflow; metric
	// publishing gets its own queue so AWS credentials stay on fewer workers.
	QueueRegression = "jag2p-regression"
	QueuePublish    = "jag2p-publish"
)
