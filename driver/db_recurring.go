package driver

import (
	"context"
	"fmt"
	"time"

	"review-processor/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetDueRecurringAnalyses returns active recurring records whose next_run
// falls in [from, to).
func GetDueRecurringAnalyses(ctx context.Context, db *pgxpool.Pool, from, to time.Time) ([]*models.RecurringAnalysis, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, user_id, submission_id, interval, day_of_week, status, last_run, next_run
		FROM recurring_analyses
		WHERE status = $1 AND next_run >= $2 AND next_run < $3`

	rows, err := db.Query(ctx, query, models.RecurringActive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.RecurringAnalysis

	for rows.Next() {
		r := &models.RecurringAnalysis{}

		err := rows.Scan(&r.ID, &r.UserID, &r.SubmissionID, &r.Interval,
			&r.DayOfWeek, &r.Status, &r.LastRun, &r.NextRun)
		if err != nil {
			return nil, err
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// UpdateRecurringRunTimes persists last_run and the recomputed next_run.
func UpdateRecurringRunTimes(ctx context.Context, db *pgxpool.Pool, id string, lastRun, nextRun time.Time) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	_, err := db.Exec(ctx,
		`UPDATE recurring_analyses SET last_run = $1, next_run = $2, updated_at = NOW() WHERE id = $3`,
		lastRun, nextRun, id)

	return err
}
