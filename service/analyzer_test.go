package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-processor/domain"
	"review-processor/models"
)

func analyzerFixture(repo *fakeReviewRepo, client *fakeAnalysisClient) AnalyzerService {
	return NewAnalyzerService(repo, client, testScraperConfig(), slog.Default())
}

func storedReview(submissionID, text string, rating float64, date string) *models.Review {
	r := &models.Review{SubmissionID: submissionID, ReviewText: &text}
	if rating > 0 {
		r.Rating = &rating
	}
	if date != "" {
		r.ReviewDate = &date
	}
	return r
}

const validAnalysisResponse = `{
	"sentiment_positive_score": 0.61,
	"sentiment_negative_score": 0.12,
	"sentiment_neutral_score": 0.21,
	"display_name": "Acme B0TEST12345",
	"themes": ["battery life", "build quality"],
	"top_positives": ["long battery"],
	"top_negatives": ["stiff buttons"],
	"word_map": {"battery": 12, "quality": 7},
	"trending": "positive",
	"competitive_insights": ["cheaper than rivals"],
	"improvement_opportunities": ["softer buttons"],
	"high_level_summary": "Customers like it overall."
}`

func TestAnalyzerAnalyze(t *testing.T) {
	ctx := context.Background()
	submission := &models.Submission{ID: "sub-1", URL: "https://amazon.com/dp/B0TEST12345"}

	t.Run("valid response becomes an analysis with local statistics", func(t *testing.T) {
		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", "Battery lasts forever", 5, "2024-06-01"),
			storedReview("sub-1", "Buttons are stiff", 3, "2024-06-02"),
			storedReview("sub-1", "No rating here", 0, ""),
		}}
		client := &fakeAnalysisClient{response: validAnalysisResponse}

		analysis, err := analyzerFixture(repo, client).Analyze(ctx, submission)

		require.NoError(t, err)
		// Sentiment sum 0.94 is accepted; the triple is approximate.
		assert.Equal(t, 0.61, analysis.SentimentPositive)
		assert.Equal(t, 0.12, analysis.SentimentNegative)
		assert.Equal(t, 0.21, analysis.SentimentNeutral)
		assert.Equal(t, []string{"battery life", "build quality"}, analysis.Themes)
		assert.Equal(t, "positive", analysis.Trending)
		assert.Equal(t, "Acme B0TEST12345", analysis.DisplayName)
		assert.Equal(t, 3, analysis.ReviewsAnalyzed)
		assert.Equal(t, 4.0, analysis.AverageRating)
		assert.Equal(t, map[string]int{"battery": 12, "quality": 7}, analysis.WordMap)
	})

	t.Run("prompt carries the local statistics ahead of the reviews", func(t *testing.T) {
		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", "Battery lasts forever", 5, "2024-06-01"),
			storedReview("sub-1", "Buttons are stiff", 3, "2024-06-02"),
			storedReview("sub-1", "Decent for the price", 4, "2024-05-15"),
		}}
		client := &fakeAnalysisClient{response: validAnalysisResponse}

		_, err := analyzerFixture(repo, client).Analyze(ctx, submission)

		require.NoError(t, err)
		require.Len(t, client.prompts, 1)
		prompt := client.prompts[0]
		assert.Contains(t, prompt, "Average rating: 4.00 across 3 rated reviews")
		assert.Contains(t, prompt, "5 stars: 1;")
		assert.Contains(t, prompt, "3 stars: 1;")
		assert.Contains(t, prompt, "2024-06: average 4.00 over 2 reviews")
		assert.Contains(t, prompt, "2024-05: average 4.00 over 1 reviews")
		assert.Less(t, strings.Index(prompt, "Local statistics:"), strings.Index(prompt, "Reviews:"))
	})

	t.Run("non-JSON response fails as unparsable", func(t *testing.T) {
		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", "some text", 4, "2024-06-01"),
		}}
		client := &fakeAnalysisClient{response: "I could not produce JSON, sorry."}

		_, err := analyzerFixture(repo, client).Analyze(ctx, submission)
		assert.ErrorIs(t, err, domain.ErrAnalysisUnparsable)
	})

	t.Run("client error surfaces", func(t *testing.T) {
		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", "some text", 4, "2024-06-01"),
		}}
		clientErr := errors.New("upstream 503")
		client := &fakeAnalysisClient{err: clientErr}

		_, err := analyzerFixture(repo, client).Analyze(ctx, submission)
		assert.ErrorIs(t, err, clientErr)
	})

	t.Run("no usable review text fails before calling the service", func(t *testing.T) {
		empty := "   "
		repo := &fakeReviewRepo{stored: []*models.Review{
			{SubmissionID: "sub-1", ReviewText: &empty},
			{SubmissionID: "sub-1"},
		}}
		client := &fakeAnalysisClient{response: validAnalysisResponse}

		_, err := analyzerFixture(repo, client).Analyze(ctx, submission)
		assert.ErrorIs(t, err, domain.ErrNoReviewText)
		assert.Empty(t, client.prompts)
	})

	t.Run("long reviews are truncated in the prompt", func(t *testing.T) {
		long := strings.Repeat("x", 2000)
		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", long, 4, "2024-06-01"),
		}}
		client := &fakeAnalysisClient{response: validAnalysisResponse}

		_, err := analyzerFixture(repo, client).Analyze(ctx, submission)

		require.NoError(t, err)
		require.Len(t, client.prompts, 1)
		assert.Contains(t, client.prompts[0], strings.Repeat("x", 500))
		assert.NotContains(t, client.prompts[0], strings.Repeat("x", 501))
	})

	t.Run("missing display_name falls back to brand and product id", func(t *testing.T) {
		title := "Acme Widget Pro"
		brand := "Acme"
		asin := "B0TEST12345"
		withDetails := &models.Submission{
			ID:           "sub-1",
			URL:          "https://amazon.com/dp/B0TEST12345",
			ProductTitle: &title,
			BrandName:    &brand,
			ASIN:         &asin,
		}

		repo := &fakeReviewRepo{stored: []*models.Review{
			storedReview("sub-1", "Battery lasts forever", 5, "2024-06-01"),
		}}
		noName := strings.Replace(validAnalysisResponse, `"display_name": "Acme B0TEST12345",`, "", 1)
		client := &fakeAnalysisClient{response: noName}

		analysis, err := analyzerFixture(repo, client).Analyze(ctx, withDetails)

		require.NoError(t, err)
		assert.Equal(t, "Acme B0TEST12345", analysis.DisplayName)
	})

	t.Run("product label prefers title then brand and asin", func(t *testing.T) {
		title := "Acme Widget Pro"
		brand := "Acme"
		asin := "B0TEST12345"

		withTitle := &models.Submission{ID: "s", URL: "u", ProductTitle: &title}
		assert.Equal(t, "Acme Widget Pro", productLabel(withTitle))

		withBrand := &models.Submission{ID: "s", URL: "u", BrandName: &brand, ASIN: &asin}
		assert.Equal(t, "Acme B0TEST12345", productLabel(withBrand))

		bare := &models.Submission{ID: "s", URL: "https://amazon.com/dp/B0TEST12345"}
		assert.Equal(t, "https://amazon.com/dp/B0TEST12345", productLabel(bare))
		assert.Equal(t, "https://amazon.com/dp/B0TEST12345", fallbackDisplayName(bare))
	})
}

func TestParseResponseCoercion(t *testing.T) {
	ctx := context.Background()
	svc := &analyzerService{cfg: testScraperConfig(), logger: slog.Default()}

	t.Run("numeric strings and oversized lists are repaired", func(t *testing.T) {
		raw := `{
			"sentiment_positive_score": "0.7",
			"sentiment_negative_score": 0.2,
			"sentiment_neutral_score": "0.1",
			"themes": ["a","b","c","d","e","f","g","h","i","j","k","l"],
			"top_positives": ["p1","p2","p3","p4","p5","p6"],
			"word_map": {"term": "3"},
			"surprise_key": "ignored"
		}`

		payload, err := svc.parseResponse(ctx, "sub-1", raw)

		require.NoError(t, err)
		assert.Equal(t, 0.7, payload.SentimentPositive)
		assert.Equal(t, 0.1, payload.SentimentNeutral)
		assert.Len(t, payload.Themes, maxThemes)
		assert.Len(t, payload.TopPositives, maxListItems)
		assert.Equal(t, map[string]int{"term": 3}, payload.WordMap)
	})

	t.Run("nested sentiment object is accepted when flat keys are absent", func(t *testing.T) {
		raw := `{"sentiment": {"positive": 0.5, "negative": 0.3, "neutral": 0.2}}`

		payload, err := svc.parseResponse(ctx, "sub-1", raw)

		require.NoError(t, err)
		assert.Equal(t, 0.5, payload.SentimentPositive)
		assert.Equal(t, 0.3, payload.SentimentNegative)
		assert.Equal(t, 0.2, payload.SentimentNeutral)
	})

	t.Run("flat keys win over a nested sentiment object", func(t *testing.T) {
		raw := `{
			"sentiment_positive_score": 0.9,
			"sentiment_negative_score": 0.05,
			"sentiment_neutral_score": 0.05,
			"sentiment": {"positive": 0.1, "negative": 0.8, "neutral": 0.1}
		}`

		payload, err := svc.parseResponse(ctx, "sub-1", raw)

		require.NoError(t, err)
		assert.Equal(t, 0.9, payload.SentimentPositive)
		assert.Equal(t, 0.05, payload.SentimentNegative)
	})

	t.Run("missing keys leave zero values", func(t *testing.T) {
		payload, err := svc.parseResponse(ctx, "sub-1", `{}`)
		require.NoError(t, err)
		assert.Zero(t, payload.SentimentPositive)
		assert.Empty(t, payload.DisplayName)
		assert.Empty(t, payload.Themes)
		assert.NotNil(t, payload.WordMap)
	})

	t.Run("word map keeps highest counts when over the cap", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`{"word_map": {`)
		for i := 0; i < 60; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`"term`)
			b.WriteByte(byte('a' + i%26))
			b.WriteString(string(rune('0' + i/26)))
			b.WriteString(`": `)
			b.WriteString(strconv.Itoa(i + 1))
		}
		b.WriteString(`}}`)

		payload, err := svc.parseResponse(ctx, "sub-1", b.String())
		require.NoError(t, err)
		assert.Len(t, payload.WordMap, maxWordMapTerms)
	})
}
