package service

import (
	"context"
	"time"

	"review-processor/models"
)

// ReviewFetcherService acquires product metadata and reviews from the
// upstream API.
type ReviewFetcherService interface {
	Fetch(ctx context.Context, productID string) (*FetchResult, error)
}

// ReviewWriterService persists normalized reviews one item at a time.
type ReviewWriterService interface {
	Write(ctx context.Context, submissionID string, reviews []models.RawReview) *WriteResult
}

// AnalyzerService computes local statistics, calls the external analysis
// service and validates its response.
type AnalyzerService interface {
	Analyze(ctx context.Context, submission *models.Submission) (*models.Analysis, error)
}

// SubmissionProcessorService runs the full pipeline for one submission.
type SubmissionProcessorService interface {
	Process(ctx context.Context, submissionID string) error
}

// RecurringSchedulerService spawns submissions for due recurring records.
type RecurringSchedulerService interface {
	RunDue(ctx context.Context, now time.Time) (*RunDueResult, error)
}

// FetchResult is the outcome of upstream acquisition. Details is nil when
// the product-details call failed; Reviews may be a partial result when
// pagination stopped early.
type FetchResult struct {
	Details   *models.ProductDetails
	Reviews   []models.RawReview
	Pages     int
	Truncated bool
}

// WriteResult counts per-item outcomes of a review batch write.
type WriteResult struct {
	SuccessCount int
	FailureCount int
}

// RunDueResult summarizes one scheduler sweep.
type RunDueResult struct {
	DueCount     int
	SpawnedCount int
	ErrorCount   int
}
