package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"review-processor/domain"
	"review-processor/driver"
	"review-processor/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type submissionRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *pgxpool.Pool, logger *slog.Logger) SubmissionRepository {
	return &submissionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find submission: database connection is nil")
	}

	submission, err := driver.GetSubmissionByID(ctx, r.db, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find submission", "error", err, "submission_id", id)
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return submission, nil
}

func (r *submissionRepository) FindPending(ctx context.Context, limit int) ([]*models.Submission, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find pending submissions: database connection is nil")
	}

	submissions, err := driver.GetPendingSubmissions(ctx, r.db, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find pending submissions", "error", err)
		return nil, fmt.Errorf("failed to find pending submissions: %w", err)
	}

	return submissions, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to update submission status: database connection is nil")
	}

	if err := driver.UpdateSubmissionStatus(ctx, r.db, id, status); err != nil {
		r.logger.ErrorContext(ctx, "failed to update submission status",
			"error", err, "submission_id", id, "status", status)
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	r.logger.InfoContext(ctx, "submission status updated", "submission_id", id, "status", status)

	return nil
}

func (r *submissionRepository) MarkFailed(ctx context.Context, id string, message string) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to mark submission failed: database connection is nil")
	}

	if err := driver.MarkSubmissionFailed(ctx, r.db, id, message); err != nil {
		r.logger.ErrorContext(ctx, "failed to mark submission failed", "error", err, "submission_id", id)
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}

	return nil
}

func (r *submissionRepository) SaveProductDetails(ctx context.Context, id string, platform domain.Platform, details *models.ProductDetails) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to save product details: database connection is nil")
	}

	if err := driver.UpdateSubmissionProductDetails(ctx, r.db, id, platform, details); err != nil {
		r.logger.ErrorContext(ctx, "failed to save product details", "error", err, "submission_id", id)
		return fmt.Errorf("failed to save product details: %w", err)
	}

	r.logger.InfoContext(ctx, "product details saved", "submission_id", id, "title", details.Title)

	return nil
}

func (r *submissionRepository) CompleteRefreshParent(ctx context.Context, parentID string, refreshedAt time.Time) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to complete refresh parent: database connection is nil")
	}

	if err := driver.CompleteRefreshParent(ctx, r.db, parentID, refreshedAt); err != nil {
		r.logger.ErrorContext(ctx, "failed to complete refresh parent", "error", err, "parent_id", parentID)
		return fmt.Errorf("failed to complete refresh parent: %w", err)
	}

	return nil
}

func (r *submissionRepository) CreateClone(ctx context.Context, origin *models.Submission, userID string) (string, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return "", fmt.Errorf("failed to create submission clone: database connection is nil")
	}

	id, err := driver.InsertSubmissionClone(ctx, r.db, origin, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create submission clone",
			"error", err, "origin_id", origin.ID)
		return "", fmt.Errorf("failed to create submission clone: %w", err)
	}

	r.logger.InfoContext(ctx, "submission clone created", "origin_id", origin.ID, "clone_id", id)

	return id, nil
}
