package repository

import (
	"context"
	"fmt"
	"log/slog"

	"review-processor/driver"
	"review-processor/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *pgxpool.Pool, logger *slog.Logger) ReviewRepository {
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reviewRepository) Insert(ctx context.Context, review *models.Review) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to insert review: database connection is nil")
	}

	if err := driver.InsertReview(ctx, r.db, review); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *reviewRepository) FindBySubmission(ctx context.Context, submissionID string) ([]*models.Review, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find reviews: database connection is nil")
	}

	reviews, err := driver.GetReviewsBySubmission(ctx, r.db, submissionID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find reviews", "error", err, "submission_id", submissionID)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}
