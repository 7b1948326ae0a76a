package models

import "time"

// MonthlyRating is the per-month average/count bucket of the rating trend.
type MonthlyRating struct {
	Month   string  `json:"month"` // YYYY-MM
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Analysis is the structured output computed from a submission's reviews.
// The most recent analysis supersedes prior ones for its submission,
// except a parent analysis which is updated in place by refresh merges.
type Analysis struct {
	ID           string `db:"id"`
	SubmissionID string `db:"submission_id"`

	// Sentiment triple. Each in [0,1], summing to ~1.0; consumers treat
	// the sum as approximate.
	SentimentPositive float64 `db:"sentiment_positive_score"`
	SentimentNegative float64 `db:"sentiment_negative_score"`
	SentimentNeutral  float64 `db:"sentiment_neutral_score"`

	Themes                   []string       `db:"themes"`
	TopPositives             []string       `db:"top_positives"`
	TopNegatives             []string       `db:"top_negatives"`
	WordMap                  map[string]int `db:"word_map"`
	Trending                 string         `db:"trending"`
	CompetitiveInsights      []string       `db:"competitive_insights"`
	ImprovementOpportunities []string       `db:"improvement_opportunities"`
	HighLevelSummary         string         `db:"high_level_summary"`
	DisplayName              string         `db:"display_name"`

	// Locally computed statistics, independent of the analysis service.
	AverageRating      float64         `db:"average_rating"`
	RatingDistribution map[int]int     `db:"rating_distribution"`
	MonthlyTrend       []MonthlyRating `db:"ratings_over_time"`
	ReviewsAnalyzed    int             `db:"reviews_analyzed"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
