package driver

import (
	"context"
	"fmt"

	"review-processor/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertReview writes one normalized review. When the upstream review id
// is present the insert is idempotent: a conflicting
// (submission_id, api_review_id) pair is silently skipped, so a partially
// re-run submission cannot duplicate rows.
func InsertReview(ctx context.Context, db *pgxpool.Pool, r *models.Review) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	query := `
		INSERT INTO reviews (
			id, submission_id, review_text, review_rating, review_date,
			review_title, review_author, verified_purchase, is_vine_review,
			helpful_votes, helpful_votes_text, api_review_id, review_images,
			api_response_review, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (submission_id, api_review_id) DO NOTHING`

	_, err := db.Exec(ctx, query,
		r.ID, r.SubmissionID, r.ReviewText, r.Rating, r.ReviewDate,
		r.Title, r.Author, r.VerifiedPurchase, r.IsVineReview,
		r.HelpfulVotes, r.HelpfulVotesText, r.APIReviewID,
		rawOrNull(r.ReviewImages), rawOrNull(r.RawPayload))

	return err
}

// GetReviewsBySubmission returns all reviews owned by a submission.
func GetReviewsBySubmission(ctx context.Context, db *pgxpool.Pool, submissionID string) ([]*models.Review, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, submission_id, review_text, review_rating, review_date,
			review_title, review_author, verified_purchase, is_vine_review,
			helpful_votes, helpful_votes_text, api_review_id, created_at
		FROM reviews
		WHERE submission_id = $1
		ORDER BY created_at ASC`

	rows, err := db.Query(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review

	for rows.Next() {
		r := &models.Review{}

		err := rows.Scan(
			&r.ID, &r.SubmissionID, &r.ReviewText, &r.Rating, &r.ReviewDate,
			&r.Title, &r.Author, &r.VerifiedPurchase, &r.IsVineReview,
			&r.HelpfulVotes, &r.HelpfulVotesText, &r.APIReviewID, &r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}
