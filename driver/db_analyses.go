package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"review-processor/domain"
	"review-processor/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type analysisJSONFields struct {
	themes       []byte
	positives    []byte
	negatives    []byte
	wordMap      []byte
	competitive  []byte
	improvements []byte
	distribution []byte
	monthly      []byte
}

func marshalAnalysisFields(a *models.Analysis) (*analysisJSONFields, error) {
	f := &analysisJSONFields{}

	var err error
	if f.themes, err = json.Marshal(a.Themes); err != nil {
		return nil, fmt.Errorf("failed to marshal themes: %w", err)
	}
	if f.positives, err = json.Marshal(a.TopPositives); err != nil {
		return nil, fmt.Errorf("failed to marshal top positives: %w", err)
	}
	if f.negatives, err = json.Marshal(a.TopNegatives); err != nil {
		return nil, fmt.Errorf("failed to marshal top negatives: %w", err)
	}
	if f.wordMap, err = json.Marshal(a.WordMap); err != nil {
		return nil, fmt.Errorf("failed to marshal word map: %w", err)
	}
	if f.competitive, err = json.Marshal(a.CompetitiveInsights); err != nil {
		return nil, fmt.Errorf("failed to marshal competitive insights: %w", err)
	}
	if f.improvements, err = json.Marshal(a.ImprovementOpportunities); err != nil {
		return nil, fmt.Errorf("failed to marshal improvement opportunities: %w", err)
	}
	if f.distribution, err = json.Marshal(a.RatingDistribution); err != nil {
		return nil, fmt.Errorf("failed to marshal rating distribution: %w", err)
	}
	if f.monthly, err = json.Marshal(a.MonthlyTrend); err != nil {
		return nil, fmt.Errorf("failed to marshal monthly trend: %w", err)
	}

	return f, nil
}

// InsertAnalysis stores a freshly computed analysis.
func InsertAnalysis(ctx context.Context, db *pgxpool.Pool, a *models.Analysis) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	f, err := marshalAnalysisFields(a)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO analyses (
			id, submission_id,
			sentiment_positive_score, sentiment_negative_score, sentiment_neutral_score,
			themes, top_positives, top_negatives, word_map, trending,
			competitive_insights, improvement_opportunities,
			high_level_summary, display_name,
			average_rating, rating_distribution, ratings_over_time, reviews_analyzed,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())`

	_, err = db.Exec(ctx, query,
		a.ID, a.SubmissionID,
		a.SentimentPositive, a.SentimentNegative, a.SentimentNeutral,
		f.themes, f.positives, f.negatives, f.wordMap, a.Trending,
		f.competitive, f.improvements,
		a.HighLevelSummary, a.DisplayName,
		a.AverageRating, f.distribution, f.monthly, a.ReviewsAnalyzed)

	return err
}

// UpdateAnalysis overwrites an existing analysis row in place. Used by the
// refresh merge against the parent submission's analysis.
func UpdateAnalysis(ctx context.Context, db *pgxpool.Pool, a *models.Analysis) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	f, err := marshalAnalysisFields(a)
	if err != nil {
		return err
	}

	query := `
		UPDATE analyses SET
			sentiment_positive_score = $1,
			sentiment_negative_score = $2,
			sentiment_neutral_score = $3,
			themes = $4,
			top_positives = $5,
			top_negatives = $6,
			word_map = $7,
			trending = $8,
			competitive_insights = $9,
			improvement_opportunities = $10,
			high_level_summary = $11,
			display_name = $12,
			average_rating = $13,
			rating_distribution = $14,
			ratings_over_time = $15,
			reviews_analyzed = $16,
			updated_at = NOW()
		WHERE id = $17`

	_, err = db.Exec(ctx, query,
		a.SentimentPositive, a.SentimentNegative, a.SentimentNeutral,
		f.themes, f.positives, f.negatives, f.wordMap, a.Trending,
		f.competitive, f.improvements,
		a.HighLevelSummary, a.DisplayName,
		a.AverageRating, f.distribution, f.monthly, a.ReviewsAnalyzed,
		a.ID)

	return err
}

// GetLatestAnalysisBySubmission returns the most recent analysis for a
// submission, or domain.ErrAnalysisNotFound.
func GetLatestAnalysisBySubmission(ctx context.Context, db *pgxpool.Pool, submissionID string) (*models.Analysis, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `
		SELECT id, submission_id,
			sentiment_positive_score, sentiment_negative_score, sentiment_neutral_score,
			themes, top_positives, top_negatives, word_map, trending,
			competitive_insights, improvement_opportunities,
			high_level_summary, display_name,
			average_rating, rating_distribution, ratings_over_time, reviews_analyzed,
			created_at, updated_at
		FROM analyses
		WHERE submission_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	a := &models.Analysis{}

	var themes, positives, negatives, wordMap, competitive, improvements, distribution, monthly []byte

	err := db.QueryRow(ctx, query, submissionID).Scan(
		&a.ID, &a.SubmissionID,
		&a.SentimentPositive, &a.SentimentNegative, &a.SentimentNeutral,
		&themes, &positives, &negatives, &wordMap, &a.Trending,
		&competitive, &improvements,
		&a.HighLevelSummary, &a.DisplayName,
		&a.AverageRating, &distribution, &monthly, &a.ReviewsAnalyzed,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{themes, &a.Themes},
		{positives, &a.TopPositives},
		{negatives, &a.TopNegatives},
		{wordMap, &a.WordMap},
		{competitive, &a.CompetitiveInsights},
		{improvements, &a.ImprovementOpportunities},
		{distribution, &a.RatingDistribution},
		{monthly, &a.MonthlyTrend},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis field: %w", err)
		}
	}

	return a, nil
}
