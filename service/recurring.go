package service

import (
	"context"
	"log/slog"
	"time"

	"review-processor/models"
	"review-processor/repository"
)

type recurringScheduler struct {
	recurring   repository.RecurringRepository
	submissions repository.SubmissionRepository
	logger      *slog.Logger
}

func NewRecurringSchedulerService(recurring repository.RecurringRepository, submissions repository.SubmissionRepository, logger *slog.Logger) RecurringSchedulerService {
	return &recurringScheduler{recurring: recurring, submissions: submissions, logger: logger}
}

// RunDue sweeps active recurring records due today, clones each origin
// submission as a fresh pending one and advances the record's run times.
// Failures on one record never block the rest of the sweep.
func (s *recurringScheduler) RunDue(ctx context.Context, now time.Time) (*RunDueResult, error) {
	today := midnight(now)
	tomorrow := today.AddDate(0, 0, 1)

	due, err := s.recurring.FindDue(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}

	result := &RunDueResult{DueCount: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	s.logger.InfoContext(ctx, "running due recurring analyses",
		"due_count", len(due),
		"window_start", today.Format("2006-01-02"))

	for _, record := range due {
		if err := s.runOne(ctx, record, today); err != nil {
			result.ErrorCount++
			s.logger.ErrorContext(ctx, "recurring record failed",
				"recurring_id", record.ID,
				"submission_id", record.SubmissionID,
				"error", err)
			continue
		}
		result.SpawnedCount++
	}

	s.logger.InfoContext(ctx, "recurring sweep finished",
		"due_count", result.DueCount,
		"spawned_count", result.SpawnedCount,
		"error_count", result.ErrorCount)
	return result, nil
}

func (s *recurringScheduler) runOne(ctx context.Context, record *models.RecurringAnalysis, today time.Time) error {
	origin, err := s.submissions.FindByID(ctx, record.SubmissionID)
	if err != nil {
		return err
	}

	cloneID, err := s.submissions.CreateClone(ctx, origin, record.UserID)
	if err != nil {
		return err
	}

	next := CalculateNextRun(record.Interval, record.DayOfWeek, today)
	if err := s.recurring.UpdateRunTimes(ctx, record.ID, today, next); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "spawned recurring submission",
		"recurring_id", record.ID,
		"origin_submission_id", record.SubmissionID,
		"clone_submission_id", cloneID,
		"next_run", next.Format("2006-01-02"))
	return nil
}

// CalculateNextRun computes the next run date from a base date, at
// midnight in the base's location. Weekly runs advance seven days, then
// roll forward to the pinned weekday when one is set (Monday=0 through
// Sunday=6). Biweekly advances fourteen days. Monthly advances one
// calendar month, clamping the day to the target month's length, so
// Jan 31 schedules Feb 28 rather than overflowing into March. An
// unrecognized interval falls back to weekly.
func CalculateNextRun(interval string, dayOfWeek *int, from time.Time) time.Time {
	base := midnight(from)

	switch interval {
	case models.IntervalWeekly:
		next := base.AddDate(0, 0, 7)
		if dayOfWeek != nil && *dayOfWeek >= 0 && *dayOfWeek <= 6 {
			shift := (*dayOfWeek - mondayIndex(next.Weekday()) + 7) % 7
			next = next.AddDate(0, 0, shift)
		}
		return next
	case models.IntervalBiweekly:
		return base.AddDate(0, 0, 14)
	case models.IntervalMonthly:
		return addMonthClamped(base)
	default:
		return base.AddDate(0, 0, 7)
	}
}

// mondayIndex converts Go's Sunday=0 weekday to the Monday=0 convention
// recurring records use.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	lastOfNext := time.Date(year, month+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastOfNext {
		day = lastOfNext
	}
	return time.Date(year, month+1, day, 0, 0, 0, 0, t.Location())
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
