package repository

import (
	"context"
	"time"

	"review-processor/domain"
	"review-processor/models"
)

// SubmissionRepository handles submission persistence.
type SubmissionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	FindPending(ctx context.Context, limit int) ([]*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) error
	MarkFailed(ctx context.Context, id string, message string) error
	SaveProductDetails(ctx context.Context, id string, platform domain.Platform, details *models.ProductDetails) error
	CompleteRefreshParent(ctx context.Context, parentID string, refreshedAt time.Time) error
	CreateClone(ctx context.Context, origin *models.Submission, userID string) (string, error)
}

// ReviewRepository handles review persistence.
type ReviewRepository interface {
	Insert(ctx context.Context, review *models.Review) error
	FindBySubmission(ctx context.Context, submissionID string) ([]*models.Review, error)
}

// AnalysisRepository handles analysis persistence.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	Update(ctx context.Context, analysis *models.Analysis) error
	FindLatestBySubmission(ctx context.Context, submissionID string) (*models.Analysis, error)
}

// RecurringRepository handles recurring-analysis policy records.
type RecurringRepository interface {
	FindDue(ctx context.Context, from, to time.Time) ([]*models.RecurringAnalysis, error)
	UpdateRunTimes(ctx context.Context, id string, lastRun, nextRun time.Time) error
}
