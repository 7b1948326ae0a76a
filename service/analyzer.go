package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"review-processor/config"
	"review-processor/domain"
	"review-processor/models"
	"review-processor/repository"
)

// AnalysisClient is what the analyzer needs from the analysis API driver.
type AnalysisClient interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

const (
	maxThemes       = 10
	maxListItems    = 5
	maxWordMapTerms = 50
)

const analysisInstructions = `Analyze the customer reviews below and respond with a single JSON object using exactly these keys:
"sentiment_positive_score": float, "sentiment_negative_score": float, "sentiment_neutral_score": float, together summing to roughly 1.0,
"display_name": a short product label formatted as "Brand ProductIdentifier",
"themes": up to 10 short recurring topics,
"top_positives": up to 5 strengths customers mention,
"top_negatives": up to 5 complaints customers mention,
"word_map": up to 50 notable terms mapped to occurrence counts,
"trending": one of "positive", "negative" or "stable" describing the recent direction,
"competitive_insights": up to 5 observations comparing this product to alternatives,
"improvement_opportunities": up to 5 concrete product improvements,
"high_level_summary": two or three sentences summarizing overall customer perception.
Respond with JSON only, no prose outside the object.`

type analyzerService struct {
	reviews repository.ReviewRepository
	client  AnalysisClient
	cfg     config.ScraperConfig
	logger  *slog.Logger
}

func NewAnalyzerService(reviews repository.ReviewRepository, client AnalysisClient, cfg config.ScraperConfig, logger *slog.Logger) AnalyzerService {
	return &analyzerService{reviews: reviews, client: client, cfg: cfg, logger: logger}
}

// Analyze loads the submission's stored reviews, computes local statistics,
// sends the review texts to the analysis service and validates the
// structured response. A response that cannot be repaired into the expected
// schema yields domain.ErrAnalysisUnparsable.
func (s *analyzerService) Analyze(ctx context.Context, submission *models.Submission) (*models.Analysis, error) {
	stored, err := s.reviews.FindBySubmission(ctx, submission.ID)
	if err != nil {
		return nil, fmt.Errorf("load reviews for analysis: %w", err)
	}

	stats := ComputeStatistics(stored)

	prompt, included := s.buildPrompt(submission, stored, stats)
	if included == 0 {
		return nil, domain.ErrNoReviewText
	}

	s.logger.InfoContext(ctx, "requesting analysis",
		"submission_id", submission.ID,
		"reviews_stored", len(stored),
		"reviews_in_prompt", included,
		"prompt_chars", len(prompt))

	raw, err := s.client.Analyze(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	payload, err := s.parseResponse(ctx, submission.ID, raw)
	if err != nil {
		return nil, err
	}

	name := payload.DisplayName
	if name == "" {
		name = fallbackDisplayName(submission)
	}

	analysis := &models.Analysis{
		SubmissionID:             submission.ID,
		SentimentPositive:        payload.SentimentPositive,
		SentimentNegative:        payload.SentimentNegative,
		SentimentNeutral:         payload.SentimentNeutral,
		Themes:                   payload.Themes,
		TopPositives:             payload.TopPositives,
		TopNegatives:             payload.TopNegatives,
		WordMap:                  payload.WordMap,
		Trending:                 payload.Trending,
		CompetitiveInsights:      payload.CompetitiveInsights,
		ImprovementOpportunities: payload.ImprovementOpportunities,
		HighLevelSummary:         payload.HighLevelSummary,
		DisplayName:              name,
		AverageRating:            stats.AverageRating,
		RatingDistribution:       stats.RatingDistribution,
		MonthlyTrend:             stats.MonthlyTrend,
		ReviewsAnalyzed:          len(stored),
	}

	return analysis, nil
}

// buildPrompt assembles the instructions, the locally computed statistics
// and the review texts under the configured bounds: each review is
// truncated to MaxReviewChars and accumulation stops once the prompt would
// exceed MaxPromptChars. The statistics block precedes the reviews so
// trimming only ever drops review lines. Returns the prompt and the number
// of reviews it includes.
func (s *analyzerService) buildPrompt(submission *models.Submission, reviews []*models.Review, stats *ReviewStatistics) (string, int) {
	var b strings.Builder
	b.WriteString(analysisInstructions)
	b.WriteString("\n\nProduct: ")
	b.WriteString(productLabel(submission))
	b.WriteString("\n\n")
	writeStatistics(&b, stats)
	b.WriteString("\nReviews:\n")

	included := 0
	for _, r := range reviews {
		if r.ReviewText == nil || strings.TrimSpace(*r.ReviewText) == "" {
			continue
		}

		text := strings.TrimSpace(*r.ReviewText)
		if runes := []rune(text); len(runes) > s.cfg.MaxReviewChars {
			text = string(runes[:s.cfg.MaxReviewChars])
		}

		var entry strings.Builder
		entry.WriteString("- ")
		if r.Rating != nil {
			fmt.Fprintf(&entry, "[%.0f/5] ", *r.Rating)
		}
		if r.ReviewDate != nil {
			entry.WriteString("(")
			entry.WriteString(*r.ReviewDate)
			entry.WriteString(") ")
		}
		entry.WriteString(text)
		entry.WriteString("\n")

		if b.Len()+entry.Len() > s.cfg.MaxPromptChars {
			break
		}
		b.WriteString(entry.String())
		included++
	}

	return b.String(), included
}

// writeStatistics renders the local aggregates included with the prompt so
// the analysis service grounds its output in the same numbers the stored
// analysis reports.
func writeStatistics(b *strings.Builder, stats *ReviewStatistics) {
	b.WriteString("Local statistics:\n")
	fmt.Fprintf(b, "- Average rating: %.2f across %d rated reviews\n", stats.AverageRating, stats.RatedCount)
	b.WriteString("- Rating distribution:")
	for star := 5; star >= 1; star-- {
		fmt.Fprintf(b, " %d stars: %d;", star, stats.RatingDistribution[star])
	}
	b.WriteString("\n")
	if len(stats.MonthlyTrend) > 0 {
		b.WriteString("- Monthly trend (newest first):\n")
		for _, m := range stats.MonthlyTrend {
			fmt.Fprintf(b, "  - %s: average %.2f over %d reviews\n", m.Month, m.Average, m.Count)
		}
	}
}

// analysisPayload mirrors the JSON object the analysis service is asked to
// produce.
type analysisPayload struct {
	SentimentPositive        float64
	SentimentNegative        float64
	SentimentNeutral         float64
	DisplayName              string
	Themes                   []string
	TopPositives             []string
	TopNegatives             []string
	WordMap                  map[string]int
	Trending                 string
	CompetitiveInsights      []string
	ImprovementOpportunities []string
	HighLevelSummary         string
}

// parseResponse decodes the model output into the expected schema,
// coercing near-miss value shapes and dropping unknown keys with a log. A
// body that is not a JSON object at all is unrecoverable.
func (s *analyzerService) parseResponse(ctx context.Context, submissionID, raw string) (*analysisPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		s.logger.ErrorContext(ctx, "analysis response is not a JSON object",
			"submission_id", submissionID,
			"response_prefix", truncateForLog(raw, 200),
			"error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisUnparsable, err)
	}

	payload := &analysisPayload{WordMap: map[string]int{}}

	for key, value := range fields {
		switch key {
		case "sentiment_positive_score":
			payload.SentimentPositive = coerceFloat(value)
		case "sentiment_negative_score":
			payload.SentimentNegative = coerceFloat(value)
		case "sentiment_neutral_score":
			payload.SentimentNeutral = coerceFloat(value)
		case "sentiment":
			// Repair path for models that nest the scores despite the
			// flat instructions. Flat keys win when both are present.
			if _, ok := fields["sentiment_positive_score"]; !ok {
				payload.SentimentPositive, payload.SentimentNegative, payload.SentimentNeutral = coerceSentiment(value)
			}
		case "display_name":
			payload.DisplayName = coerceString(value)
		case "themes":
			payload.Themes = coerceStringList(value, maxThemes)
		case "top_positives":
			payload.TopPositives = coerceStringList(value, maxListItems)
		case "top_negatives":
			payload.TopNegatives = coerceStringList(value, maxListItems)
		case "word_map":
			payload.WordMap = coerceWordMap(value, maxWordMapTerms)
		case "trending":
			payload.Trending = coerceString(value)
		case "competitive_insights":
			payload.CompetitiveInsights = coerceStringList(value, maxListItems)
		case "improvement_opportunities":
			payload.ImprovementOpportunities = coerceStringList(value, maxListItems)
		case "high_level_summary":
			payload.HighLevelSummary = coerceString(value)
		default:
			s.logger.WarnContext(ctx, "ignoring unknown key in analysis response",
				"submission_id", submissionID,
				"key", key)
		}
	}

	return payload, nil
}

func coerceSentiment(raw json.RawMessage) (positive, negative, neutral float64) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, 0, 0
	}
	return coerceFloat(obj["positive"]), coerceFloat(obj["negative"]), coerceFloat(obj["neutral"])
}

// coerceFloat accepts a JSON number or a numeric string.
func coerceFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if _, scanErr := fmt.Sscanf(strings.TrimSpace(s), "%g", &f); scanErr == nil {
			return f
		}
	}
	return 0
}

func coerceString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

// coerceStringList accepts a JSON array, keeping string elements and
// stringifying scalar non-strings, capped at limit. A bare string becomes a
// single-element list.
func coerceStringList(raw json.RawMessage, limit int) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := coerceString(raw); s != "" {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			s = strings.TrimSpace(s)
		} else {
			s = strings.TrimSpace(string(item))
		}
		if s == "" || s == "null" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

// coerceWordMap accepts string→int with numeric-string and float values
// repaired, keeping the limit highest-count terms.
func coerceWordMap(raw json.RawMessage, limit int) map[string]int {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return map[string]int{}
	}

	counts := make(map[string]int, len(obj))
	for term, value := range obj {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if n := int(coerceFloat(value)); n > 0 {
			counts[term] = n
		}
	}

	if len(counts) <= limit {
		return counts
	}

	type entry struct {
		term  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for term, count := range counts {
		entries = append(entries, entry{term, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].term < entries[j].term
	})

	trimmed := make(map[string]int, limit)
	for _, e := range entries[:limit] {
		trimmed[e.term] = e.count
	}
	return trimmed
}

// productLabel names the product in the prompt, preferring the title over
// the brand and ASIN pair and finally the submission URL.
func productLabel(submission *models.Submission) string {
	if submission.ProductTitle != nil && *submission.ProductTitle != "" {
		return *submission.ProductTitle
	}
	if name := brandProductName(submission); name != "" {
		return name
	}
	return submission.URL
}

// fallbackDisplayName stands in when the analysis response omits
// display_name, matching its "Brand ProductIdentifier" shape where the
// details allow.
func fallbackDisplayName(submission *models.Submission) string {
	if name := brandProductName(submission); name != "" {
		return name
	}
	if submission.ProductTitle != nil && *submission.ProductTitle != "" {
		return *submission.ProductTitle
	}
	return submission.URL
}

func brandProductName(submission *models.Submission) string {
	var parts []string
	if submission.BrandName != nil && *submission.BrandName != "" {
		parts = append(parts, *submission.BrandName)
	}
	if submission.ASIN != nil && *submission.ASIN != "" {
		parts = append(parts, *submission.ASIN)
	}
	return strings.Join(parts, " ")
}

func truncateForLog(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
