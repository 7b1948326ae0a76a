package service

import (
	"math"
	"strings"

	"review-processor/models"
)

// mergeListCap bounds merged list fields so repeated refreshes cannot grow
// them without bound.
const mergeListCap = 20

// MergeAnalyses folds a fresh refresh analysis into a parent analysis,
// mutating the parent in place. Scalar scores are weighted by each side's
// reviews_analyzed count; list fields take the union with parent entries
// first, deduplicated case-insensitively; every other field keeps the
// parent's value. A fresh analysis with zero reviews analyzed leaves
// scalar fields untouched, so re-applying the same empty refresh is a
// no-op.
func MergeAnalyses(parent, fresh *models.Analysis) {
	parentWeight := float64(parent.ReviewsAnalyzed)
	freshWeight := float64(fresh.ReviewsAnalyzed)
	total := parentWeight + freshWeight

	if freshWeight > 0 && total > 0 {
		parent.SentimentPositive = weightedMean(parent.SentimentPositive, parentWeight, fresh.SentimentPositive, freshWeight)
		parent.SentimentNegative = weightedMean(parent.SentimentNegative, parentWeight, fresh.SentimentNegative, freshWeight)
		parent.SentimentNeutral = weightedMean(parent.SentimentNeutral, parentWeight, fresh.SentimentNeutral, freshWeight)
		parent.AverageRating = weightedMean(parent.AverageRating, parentWeight, fresh.AverageRating, freshWeight)
	}

	parent.Themes = mergeLists(parent.Themes, fresh.Themes)
	parent.TopPositives = mergeLists(parent.TopPositives, fresh.TopPositives)
	parent.TopNegatives = mergeLists(parent.TopNegatives, fresh.TopNegatives)
	parent.CompetitiveInsights = mergeLists(parent.CompetitiveInsights, fresh.CompetitiveInsights)
	parent.ImprovementOpportunities = mergeLists(parent.ImprovementOpportunities, fresh.ImprovementOpportunities)

	parent.ReviewsAnalyzed += fresh.ReviewsAnalyzed
}

func weightedMean(a, wa, b, wb float64) float64 {
	return math.Round((a*wa+b*wb)/(wa+wb)*10000) / 10000
}

// normalizeListKey is the dedup identity for merged list entries: trimmed
// and lowercased, so "Battery Life" and "battery life" are one entry. The
// first-seen spelling wins.
func normalizeListKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mergeLists(parent, fresh []string) []string {
	seen := make(map[string]struct{}, len(parent)+len(fresh))
	merged := make([]string, 0, len(parent)+len(fresh))

	for _, list := range [][]string{parent, fresh} {
		for _, item := range list {
			key := normalizeListKey(item)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, strings.TrimSpace(item))
			if len(merged) == mergeListCap {
				return merged
			}
		}
	}
	return merged
}
