package handler

import "context"

// JobHandler owns the background processing loops.
type JobHandler interface {
	StartPendingSubmissionJob(ctx context.Context) error
	StartRecurringAnalysisJob(ctx context.Context) error
	Stop() error
}

// HealthHandler reports service and dependency health.
type HealthHandler interface {
	CheckHealth(ctx context.Context) error
	CheckDependencies(ctx context.Context) error
}
