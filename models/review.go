package models

import (
	"encoding/json"
	"time"
)

// Review is one normalized customer review owned by a submission.
// Rows are written once during the pipeline's write stage and never
// mutated afterward.
type Review struct {
	ID           string `db:"id"`
	SubmissionID string `db:"submission_id"`

	ReviewText       *string  `db:"review_text"`
	Rating           *float64 `db:"review_rating"`
	ReviewDate       *string  `db:"review_date"` // canonical YYYY-MM-DD
	Title            *string  `db:"review_title"`
	Author           *string  `db:"review_author"`
	VerifiedPurchase bool     `db:"verified_purchase"`
	IsVineReview     bool     `db:"is_vine_review"`
	HelpfulVotes     int      `db:"helpful_votes"`
	HelpfulVotesText *string  `db:"helpful_votes_text"`

	// APIReviewID is the upstream review identifier, used for
	// idempotent re-insertion. Absent for some upstream payloads.
	APIReviewID *string `db:"api_review_id"`

	ReviewImages json.RawMessage `db:"review_images"`
	RawPayload   json.RawMessage `db:"api_response_review"`

	CreatedAt time.Time `db:"created_at"`
}
