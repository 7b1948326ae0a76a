package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"review-processor/models"
)

func TestMergeAnalyses(t *testing.T) {
	t.Run("scalars are weighted by reviews analyzed", func(t *testing.T) {
		parent := &models.Analysis{
			SentimentPositive: 0.8,
			SentimentNegative: 0.1,
			SentimentNeutral:  0.1,
			AverageRating:     4.0,
			ReviewsAnalyzed:   90,
		}
		fresh := &models.Analysis{
			SentimentPositive: 0.2,
			SentimentNegative: 0.6,
			SentimentNeutral:  0.2,
			AverageRating:     2.0,
			ReviewsAnalyzed:   10,
		}

		MergeAnalyses(parent, fresh)

		assert.InDelta(t, 0.74, parent.SentimentPositive, 0.0001)
		assert.InDelta(t, 0.15, parent.SentimentNegative, 0.0001)
		assert.InDelta(t, 0.11, parent.SentimentNeutral, 0.0001)
		assert.InDelta(t, 3.8, parent.AverageRating, 0.0001)
		assert.Equal(t, 100, parent.ReviewsAnalyzed)
	})

	t.Run("zero-weight fresh analysis leaves scalars untouched", func(t *testing.T) {
		parent := &models.Analysis{
			SentimentPositive: 0.7,
			AverageRating:     4.2,
			Themes:            []string{"battery"},
			ReviewsAnalyzed:   50,
		}
		fresh := &models.Analysis{ReviewsAnalyzed: 0}

		MergeAnalyses(parent, fresh)
		first := *parent
		MergeAnalyses(parent, fresh)

		assert.Equal(t, 0.7, parent.SentimentPositive)
		assert.Equal(t, 4.2, parent.AverageRating)
		assert.Equal(t, 50, parent.ReviewsAnalyzed)
		assert.Equal(t, first.Themes, parent.Themes)
	})

	t.Run("lists union case-insensitively with parent entries first", func(t *testing.T) {
		parent := &models.Analysis{
			Themes: []string{"Battery Life", "durability"},
		}
		fresh := &models.Analysis{
			Themes:          []string{"battery life", "Noise", "DURABILITY", "price"},
			ReviewsAnalyzed: 5,
		}

		MergeAnalyses(parent, fresh)

		assert.Equal(t, []string{"Battery Life", "durability", "Noise", "price"}, parent.Themes)
	})

	t.Run("merged lists cap at twenty entries", func(t *testing.T) {
		var parentThemes, freshThemes []string
		for i := 0; i < 15; i++ {
			parentThemes = append(parentThemes, "parent-"+string(rune('a'+i)))
			freshThemes = append(freshThemes, "fresh-"+string(rune('a'+i)))
		}
		parent := &models.Analysis{Themes: parentThemes}
		fresh := &models.Analysis{Themes: freshThemes, ReviewsAnalyzed: 3}

		MergeAnalyses(parent, fresh)

		assert.Len(t, parent.Themes, mergeListCap)
		assert.Equal(t, "parent-a", parent.Themes[0])
		assert.Equal(t, "fresh-e", parent.Themes[len(parent.Themes)-1])
	})

	t.Run("word map, trending and summary retain the parent's values", func(t *testing.T) {
		parent := &models.Analysis{
			WordMap:          map[string]int{"battery": 10, "noise": 2},
			Trending:         "stable",
			HighLevelSummary: "old summary",
			ReviewsAnalyzed:  10,
		}
		fresh := &models.Analysis{
			WordMap:          map[string]int{"battery": 3, "price": 1},
			Trending:         "negative",
			HighLevelSummary: "new summary",
			ReviewsAnalyzed:  2,
		}

		MergeAnalyses(parent, fresh)

		assert.Equal(t, map[string]int{"battery": 10, "noise": 2}, parent.WordMap)
		assert.Equal(t, "stable", parent.Trending)
		assert.Equal(t, "old summary", parent.HighLevelSummary)
	})

	t.Run("repeated zero-weight merges never change the parent's word map", func(t *testing.T) {
		parent := &models.Analysis{
			WordMap:         map[string]int{"battery": 10},
			ReviewsAnalyzed: 50,
		}
		fresh := &models.Analysis{
			WordMap:         map[string]int{"battery": 3},
			ReviewsAnalyzed: 0,
		}

		MergeAnalyses(parent, fresh)
		MergeAnalyses(parent, fresh)

		assert.Equal(t, 10, parent.WordMap["battery"])
		assert.Equal(t, 50, parent.ReviewsAnalyzed)
	})
}

func TestNormalizeListKey(t *testing.T) {
	assert.Equal(t, "battery life", normalizeListKey("  Battery Life "))
	assert.Equal(t, "", normalizeListKey("   "))
}
