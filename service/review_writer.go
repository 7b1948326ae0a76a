package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"review-processor/models"
	"review-processor/normalizer"
	"review-processor/repository"
)

type reviewWriter struct {
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

func NewReviewWriterService(reviews repository.ReviewRepository, logger *slog.Logger) ReviewWriterService {
	return &reviewWriter{reviews: reviews, logger: logger}
}

// Write normalizes and inserts each review independently, so one bad item
// never discards the rest of the batch. Counts reflect rows actually
// accepted versus rows that failed to insert.
func (w *reviewWriter) Write(ctx context.Context, submissionID string, reviews []models.RawReview) *WriteResult {
	result := &WriteResult{}
	today := time.Now().UTC().Format("2006-01-02")

	for _, raw := range reviews {
		review := w.normalize(ctx, submissionID, raw, today)
		if err := w.reviews.Insert(ctx, review); err != nil {
			result.FailureCount++
			w.logger.WarnContext(ctx, "review insert failed",
				"submission_id", submissionID,
				"api_review_id", raw.ReviewID,
				"error", err)
			continue
		}
		result.SuccessCount++
	}

	w.logger.InfoContext(ctx, "review batch written",
		"submission_id", submissionID,
		"success_count", result.SuccessCount,
		"failure_count", result.FailureCount)
	return result
}

func (w *reviewWriter) normalize(ctx context.Context, submissionID string, raw models.RawReview, today string) *models.Review {
	review := &models.Review{
		SubmissionID:     submissionID,
		VerifiedPurchase: raw.IsVerifiedPurchase,
		IsVineReview:     raw.IsVine,
		APIReviewID:      nullIfBlank(raw.ReviewID),
		ReviewText:       nullIfBlank(raw.ReviewComment),
		Title:            nullIfBlank(raw.ReviewTitle),
		Author:           nullIfBlank(raw.ReviewAuthor),
		RawPayload:       raw.Raw,
	}

	if rating, ok := normalizer.Rating(raw.ReviewStarRating); ok {
		review.Rating = &rating
	}

	if date, ok := normalizer.ReviewDate(raw.ReviewDate); ok {
		if date > today {
			w.logger.WarnContext(ctx, "review date in the future, storing null",
				"submission_id", submissionID,
				"api_review_id", raw.ReviewID,
				"review_date", date)
		} else {
			review.ReviewDate = &date
		}
	}

	if raw.HelpfulVoteStatement != "" {
		review.HelpfulVotes = normalizer.HelpfulVotes(raw.HelpfulVoteStatement)
		review.HelpfulVotesText = nullIfBlank(raw.HelpfulVoteStatement)
	}

	if len(raw.ReviewImages) > 0 {
		if images, err := json.Marshal(raw.ReviewImages); err == nil {
			review.ReviewImages = images
		}
	}

	return review
}

func nullIfBlank(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
