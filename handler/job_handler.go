package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"review-processor/repository"
	"review-processor/service"
)

// JobHandler implementation.
type jobHandler struct {
	submissions repository.SubmissionRepository
	processor   service.SubmissionProcessorService
	scheduler   service.RecurringSchedulerService
	logger      *slog.Logger

	pollInterval time.Duration
	batchSize    int

	// Job control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJobHandler creates a new job handler.
func NewJobHandler(
	submissions repository.SubmissionRepository,
	processor service.SubmissionProcessorService,
	scheduler service.RecurringSchedulerService,
	pollInterval time.Duration,
	batchSize int,
	logger *slog.Logger,
) JobHandler {
	ctx, cancel := context.WithCancel(context.Background())

	return &jobHandler{
		submissions:  submissions,
		processor:    processor,
		scheduler:    scheduler,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// StartPendingSubmissionJob starts the pending-submission polling job.
func (h *jobHandler) StartPendingSubmissionJob(ctx context.Context) error {
	h.logger.InfoContext(ctx, "starting pending submission job",
		"poll_interval", h.pollInterval,
		"batch_size", h.batchSize)

	h.wg.Add(1)

	go func() {
		defer h.wg.Done()
		h.runPendingLoop()
	}()

	return nil
}

// StartRecurringAnalysisJob starts the recurring-analysis sweep job.
func (h *jobHandler) StartRecurringAnalysisJob(ctx context.Context) error {
	h.logger.InfoContext(ctx, "starting recurring analysis job")

	h.wg.Add(1)

	go func() {
		defer h.wg.Done()
		h.runRecurringLoop()
	}()

	return nil
}

// Stop stops all jobs.
func (h *jobHandler) Stop() error {
	h.logger.InfoContext(h.ctx, "stopping all jobs")
	h.cancel()
	h.wg.Wait()
	h.logger.InfoContext(h.ctx, "all jobs stopped")

	return nil
}

// runPendingLoop claims batches of pending submissions on a fixed interval.
func (h *jobHandler) runPendingLoop() {
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.InfoContext(h.ctx, "pending submission job stopped")
			return
		case <-ticker.C:
			h.processPendingBatch()
		}
	}
}

// runRecurringLoop sweeps due recurring records. Advancing next_run during
// a sweep keeps repeated sweeps within the same day idempotent, so an
// hourly cadence is safe.
func (h *jobHandler) runRecurringLoop() {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(h.ctx, "panic in runRecurringLoop", "panic", r)
		}
	}()

	// Run initially
	h.runRecurringSweep()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.InfoContext(h.ctx, "recurring analysis job stopped")
			return
		case <-ticker.C:
			h.runRecurringSweep()
		}
	}
}

// processPendingBatch claims and processes one batch of pending submissions.
func (h *jobHandler) processPendingBatch() {
	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(h.ctx, "panic in processPendingBatch", "panic", r)
		}
	}()

	pending, err := h.submissions.FindPending(h.ctx, h.batchSize)
	if err != nil {
		h.logger.ErrorContext(h.ctx, "failed to load pending submissions", "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	h.logger.InfoContext(h.ctx, "processing pending batch", "count", len(pending))

	success := 0
	for _, submission := range pending {
		if err := h.processor.Process(h.ctx, submission.ID); err != nil {
			h.logger.ErrorContext(h.ctx, "submission processing failed",
				"submission_id", submission.ID,
				"error", err)
			continue
		}
		success++
	}

	h.logger.InfoContext(h.ctx, "pending batch completed",
		"processed", len(pending),
		"success", success,
		"errors", len(pending)-success)
}

func (h *jobHandler) runRecurringSweep() {
	result, err := h.scheduler.RunDue(h.ctx, time.Now().UTC())
	if err != nil {
		h.logger.ErrorContext(h.ctx, "recurring sweep failed", "error", err)
		return
	}

	if result.DueCount > 0 {
		h.logger.InfoContext(h.ctx, "recurring sweep completed",
			"due", result.DueCount,
			"spawned", result.SpawnedCount,
			"errors", result.ErrorCount)
	}
}
