package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"review-processor/driver"
	"review-processor/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type recurringRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRecurringRepository creates a new recurring-analysis repository.
func NewRecurringRepository(db *pgxpool.Pool, logger *slog.Logger) RecurringRepository {
	return &recurringRepository{
		db:     db,
		logger: logger,
	}
}

func (r *recurringRepository) FindDue(ctx context.Context, from, to time.Time) ([]*models.RecurringAnalysis, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find due recurring analyses: database connection is nil")
	}

	records, err := driver.GetDueRecurringAnalyses(ctx, r.db, from, to)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to find due recurring analyses", "error", err)
		return nil, fmt.Errorf("failed to find due recurring analyses: %w", err)
	}

	r.logger.InfoContext(ctx, "found due recurring analyses", "count", len(records))

	return records, nil
}

func (r *recurringRepository) UpdateRunTimes(ctx context.Context, id string, lastRun, nextRun time.Time) error {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return fmt.Errorf("failed to update recurring run times: database connection is nil")
	}

	if err := driver.UpdateRecurringRunTimes(ctx, r.db, id, lastRun, nextRun); err != nil {
		r.logger.ErrorContext(ctx, "failed to update recurring run times", "error", err, "record_id", id)
		return fmt.Errorf("failed to update recurring run times: %w", err)
	}

	return nil
}
