package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"review-processor/domain"
	"review-processor/models"
	"review-processor/normalizer"
	"review-processor/repository"
)

type submissionProcessor struct {
	submissions repository.SubmissionRepository
	analyses    repository.AnalysisRepository
	fetcher     ReviewFetcherService
	writer      ReviewWriterService
	analyzer    AnalyzerService
	logger      *slog.Logger
}

func NewSubmissionProcessorService(
	submissions repository.SubmissionRepository,
	analyses repository.AnalysisRepository,
	fetcher ReviewFetcherService,
	writer ReviewWriterService,
	analyzer AnalyzerService,
	logger *slog.Logger,
) SubmissionProcessorService {
	return &submissionProcessor{
		submissions: submissions,
		analyses:    analyses,
		fetcher:     fetcher,
		writer:      writer,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// Process runs the full pipeline for one submission: claim, resolve the
// product, fetch details and reviews, persist reviews, analyze, finalize.
// Any stage failure marks the submission failed with a truncated message
// and resurfaces the error to the caller.
func (p *submissionProcessor) Process(ctx context.Context, submissionID string) error {
	submission, err := p.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load submission %s: %w", submissionID, err)
	}

	if submission.Status.Terminal() {
		p.logger.InfoContext(ctx, "submission already in terminal state, skipping",
			"submission_id", submissionID,
			"status", submission.Status)
		return nil
	}

	if err := p.submissions.UpdateStatus(ctx, submissionID, domain.StatusProcessing); err != nil {
		return fmt.Errorf("claim submission %s: %w", submissionID, err)
	}

	p.logger.InfoContext(ctx, "processing submission",
		"submission_id", submissionID,
		"url", submission.URL,
		"is_refresh", submission.IsRefresh())

	if err := p.run(ctx, submission); err != nil {
		p.fail(ctx, submissionID, err)
		if submission.IsRefresh() {
			p.releaseRefreshParent(ctx, *submission.RefreshParentID)
		}
		return err
	}
	return nil
}

// releaseRefreshParent returns a parent parked in refreshing to completed
// after its refresh failed, without stamping last_refreshed_at. Parents in
// any other state are left alone.
func (p *submissionProcessor) releaseRefreshParent(ctx context.Context, parentID string) {
	parent, err := p.submissions.FindByID(ctx, parentID)
	if err != nil {
		p.logger.ErrorContext(ctx, "could not load refresh parent for release",
			"parent_id", parentID,
			"error", err)
		return
	}
	if parent.Status != domain.StatusRefreshing {
		return
	}
	if err := p.submissions.UpdateStatus(ctx, parentID, domain.StatusCompleted); err != nil {
		p.logger.ErrorContext(ctx, "could not release refresh parent",
			"parent_id", parentID,
			"error", err)
	}
}

func (p *submissionProcessor) run(ctx context.Context, submission *models.Submission) error {
	platform := domain.DetectPlatform(submission.URL)
	if platform != domain.PlatformAmazon {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedPlatform, platform)
	}

	productID := normalizer.AmazonProductID(submission.URL)
	if productID == "" {
		return fmt.Errorf("%w: %s", domain.ErrProductIDExtraction, submission.URL)
	}

	fetched, err := p.fetcher.Fetch(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetch reviews for %s: %w", productID, err)
	}

	if fetched.Details != nil {
		if err := p.submissions.SaveProductDetails(ctx, submission.ID, platform, fetched.Details); err != nil {
			return fmt.Errorf("save product details: %w", err)
		}
		// Reload so the analyzer sees the stored metadata.
		submission, err = p.submissions.FindByID(ctx, submission.ID)
		if err != nil {
			return fmt.Errorf("reload submission: %w", err)
		}
	}

	reviews := fetched.Reviews
	if submission.IsRefresh() {
		since, err := p.refreshSince(ctx, *submission.RefreshParentID)
		if err != nil {
			return err
		}
		before := len(reviews)
		reviews = FilterSince(reviews, since)
		p.logger.InfoContext(ctx, "filtered refresh reviews",
			"submission_id", submission.ID,
			"since", since,
			"fetched", before,
			"kept", len(reviews))
	}

	if len(reviews) == 0 {
		return p.finalizeWithoutReviews(ctx, submission, fetched.Details != nil)
	}

	written := p.writer.Write(ctx, submission.ID, reviews)
	if written.SuccessCount == 0 {
		return fmt.Errorf("all %d review inserts failed", written.FailureCount)
	}

	if err := p.submissions.UpdateStatus(ctx, submission.ID, domain.StatusProcessingAnalysis); err != nil {
		return fmt.Errorf("mark analysis in progress: %w", err)
	}

	analysis, err := p.analyzer.Analyze(ctx, submission)
	if err != nil {
		return fmt.Errorf("analyze submission %s: %w", submission.ID, err)
	}

	if submission.IsRefresh() {
		if err := p.applyRefresh(ctx, submission, analysis); err != nil {
			return err
		}
	} else {
		if err := p.analyses.Create(ctx, analysis); err != nil {
			return fmt.Errorf("store analysis: %w", err)
		}
	}

	final := domain.StatusCompleted
	if written.FailureCount > 0 {
		final = domain.StatusCompletedWithErrs
	}
	if err := p.submissions.UpdateStatus(ctx, submission.ID, final); err != nil {
		return fmt.Errorf("finalize submission: %w", err)
	}

	p.logger.InfoContext(ctx, "submission completed",
		"submission_id", submission.ID,
		"status", final,
		"reviews_stored", written.SuccessCount,
		"reviews_failed", written.FailureCount)
	return nil
}

// refreshSince resolves the date a refresh filters against: the parent's
// last refresh time, or its creation time for a first refresh. A parent
// that is itself a refresh submission is rejected; refreshes always hang
// off an original submission.
func (p *submissionProcessor) refreshSince(ctx context.Context, parentID string) (string, error) {
	parent, err := p.submissions.FindByID(ctx, parentID)
	if err != nil {
		return "", fmt.Errorf("load refresh parent %s: %w", parentID, err)
	}

	if parent.IsRefresh() {
		return "", fmt.Errorf("refresh parent %s is itself a refresh submission", parentID)
	}

	since := parent.CreatedAt
	if parent.LastRefreshedAt != nil {
		since = *parent.LastRefreshedAt
	}
	return since.UTC().Format("2006-01-02"), nil
}

// applyRefresh folds the fresh analysis into the parent's latest analysis
// and returns the parent to completed. A parent without an analysis yet
// gets the fresh one attributed to it directly.
func (p *submissionProcessor) applyRefresh(ctx context.Context, submission *models.Submission, fresh *models.Analysis) error {
	parentID := *submission.RefreshParentID

	parent, err := p.analyses.FindLatestBySubmission(ctx, parentID)
	switch {
	case err == nil:
		MergeAnalyses(parent, fresh)
		if err := p.analyses.Update(ctx, parent); err != nil {
			return fmt.Errorf("update parent analysis: %w", err)
		}
	case errors.Is(err, domain.ErrAnalysisNotFound):
		fresh.SubmissionID = parentID
		if err := p.analyses.Create(ctx, fresh); err != nil {
			return fmt.Errorf("store first parent analysis: %w", err)
		}
	default:
		return fmt.Errorf("load parent analysis: %w", err)
	}

	if err := p.submissions.CompleteRefreshParent(ctx, parentID, time.Now().UTC()); err != nil {
		return fmt.Errorf("complete refresh parent: %w", err)
	}
	return nil
}

// finalizeWithoutReviews closes out a submission that yielded zero reviews.
// Metadata presence decides between the completed and failed variants. A
// refresh with nothing new still returns its parent to completed.
func (p *submissionProcessor) finalizeWithoutReviews(ctx context.Context, submission *models.Submission, hasDetails bool) error {
	if submission.IsRefresh() {
		if err := p.submissions.CompleteRefreshParent(ctx, *submission.RefreshParentID, time.Now().UTC()); err != nil {
			return fmt.Errorf("complete refresh parent: %w", err)
		}
	}

	status := domain.StatusCompletedNoReviews
	if !hasDetails {
		status = domain.StatusFailedNoReviews
	}
	if err := p.submissions.UpdateStatus(ctx, submission.ID, status); err != nil {
		return fmt.Errorf("finalize submission without reviews: %w", err)
	}

	p.logger.InfoContext(ctx, "submission finished with no reviews",
		"submission_id", submission.ID,
		"status", status)
	return nil
}

func (p *submissionProcessor) fail(ctx context.Context, submissionID string, cause error) {
	p.logger.ErrorContext(ctx, "submission failed",
		"submission_id", submissionID,
		"error", cause)

	if err := p.submissions.MarkFailed(ctx, submissionID, cause.Error()); err != nil {
		p.logger.ErrorContext(ctx, "could not record submission failure",
			"submission_id", submissionID,
			"error", err)
	}
}
