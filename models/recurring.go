package models

import "time"

// Recurring interval policies.
const (
	IntervalWeekly   = "weekly"
	IntervalBiweekly = "biweekly"
	IntervalMonthly  = "monthly"
)

// Recurring record statuses.
const (
	RecurringActive = "active"
	RecurringPaused = "paused"
)

// RecurringAnalysis is a standing policy that periodically clones its
// origin submission as a new pending submission.
type RecurringAnalysis struct {
	ID           string `db:"id"`
	UserID       string `db:"user_id"`
	SubmissionID string `db:"submission_id"`

	Interval string `db:"interval"` // weekly, biweekly, monthly

	// DayOfWeek optionally pins weekly runs to a weekday,
	// Monday=0 through Sunday=6.
	DayOfWeek *int `db:"day_of_week"`

	Status  string     `db:"status"`
	LastRun *time.Time `db:"last_run"`
	NextRun *time.Time `db:"next_run"`
}
