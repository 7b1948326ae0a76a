package repository

import (
	"context"
	"fmt"
	"log/slog"

	"review-processor/driver"
	"review-processor/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type analysisRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(db *pgxpool.Pool, logger *slog.Logger) AnalysisRepository {
	return &analysisRepository{
		db:     db,
		logger: logger,
	}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to create analysis: database connection is nil")
	}

	if err := driver.InsertAnalysis(ctx, r.db, analysis); err != nil {
		r.logger.ErrorContext(ctx, "failed to create analysis",
			"error", err, "submission_id", analysis.SubmissionID)
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	r.logger.InfoContext(ctx, "analysis created",
		"submission_id", analysis.SubmissionID, "reviews_analyzed", analysis.ReviewsAnalyzed)

	return nil
}

func (r *analysisRepository) Update(ctx context.Context, analysis *models.Analysis) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to update analysis: database connection is nil")
	}

	if err := driver.UpdateAnalysis(ctx, r.db, analysis); err != nil {
		r.logger.ErrorContext(ctx, "failed to update analysis", "error", err, "analysis_id", analysis.ID)
		return fmt.Errorf("failed to update analysis: %w", err)
	}

	return nil
}

func (r *analysisRepository) FindLatestBySubmission(ctx context.Context, submissionID string) (*models.Analysis, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find analysis: database connection is nil")
	}

	analysis, err := driver.GetLatestAnalysisBySubmission(ctx, r.db, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}

	return analysis, nil
}
