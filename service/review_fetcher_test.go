package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-processor/config"
	"review-processor/models"
)

func testScraperConfig() config.ScraperConfig {
	return config.ScraperConfig{
		MaxPages:       100,
		MaxReviews:     1000,
		PageDelay:      0,
		MaxReviewChars: 500,
		MaxPromptChars: 48000,
	}
}

func rawReviews(ids ...string) []models.RawReview {
	out := make([]models.RawReview, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.RawReview{ReviewID: id, ReviewComment: "text " + id})
	}
	return out
}

func TestReviewFetcherFetch(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("stops on empty page and keeps all collected reviews", func(t *testing.T) {
		upstream := &fakeUpstream{
			details: &models.ProductDetails{ASIN: "B0TEST12345", Title: "Widget"},
			pages: [][]models.RawReview{
				rawReviews("r1", "r2"),
				rawReviews("r3"),
				{},
			},
		}

		fetcher := NewReviewFetcherService(upstream, testScraperConfig(), logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Len(t, result.Reviews, 3)
		assert.Equal(t, 2, result.Pages)
		assert.False(t, result.Truncated)
		assert.Equal(t, []int{1, 2, 3}, upstream.pagesRequested)
		assert.NotNil(t, result.Details)
	})

	t.Run("page error keeps partial results without failing", func(t *testing.T) {
		upstream := &fakeUpstream{
			pages:    [][]models.RawReview{rawReviews("r1", "r2")},
			pageErrs: map[int]error{2: errors.New("upstream 502")},
		}

		fetcher := NewReviewFetcherService(upstream, testScraperConfig(), logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Len(t, result.Reviews, 2)
		assert.Equal(t, 1, result.Pages)
	})

	t.Run("error on first page yields empty result without failing", func(t *testing.T) {
		upstream := &fakeUpstream{
			pageErrs: map[int]error{1: errors.New("upstream 500")},
		}

		fetcher := NewReviewFetcherService(upstream, testScraperConfig(), logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Empty(t, result.Reviews)
	})

	t.Run("review ceiling truncates and stops pagination", func(t *testing.T) {
		cfg := testScraperConfig()
		cfg.MaxReviews = 3
		upstream := &fakeUpstream{
			pages: [][]models.RawReview{
				rawReviews("r1", "r2"),
				rawReviews("r3", "r4"),
				rawReviews("r5"),
			},
		}

		fetcher := NewReviewFetcherService(upstream, cfg, logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Len(t, result.Reviews, 3)
		assert.True(t, result.Truncated)
		assert.Equal(t, []int{1, 2}, upstream.pagesRequested)
	})

	t.Run("page ceiling bounds requests", func(t *testing.T) {
		cfg := testScraperConfig()
		cfg.MaxPages = 2
		upstream := &fakeUpstream{
			pages: [][]models.RawReview{
				rawReviews("r1"),
				rawReviews("r2"),
				rawReviews("r3"),
			},
		}

		fetcher := NewReviewFetcherService(upstream, cfg, logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Len(t, result.Reviews, 2)
		assert.Equal(t, []int{1, 2}, upstream.pagesRequested)
	})

	t.Run("failed product details is non-fatal", func(t *testing.T) {
		upstream := &fakeUpstream{
			detailsErr: errors.New("details 404"),
			pages:      [][]models.RawReview{rawReviews("r1")},
		}

		fetcher := NewReviewFetcherService(upstream, testScraperConfig(), logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		require.NoError(t, err)
		assert.Nil(t, result.Details)
		assert.Len(t, result.Reviews, 1)
	})

	t.Run("missing credentials is fatal", func(t *testing.T) {
		readyErr := errors.New("credentials missing")
		upstream := &fakeUpstream{readyErr: readyErr}

		fetcher := NewReviewFetcherService(upstream, testScraperConfig(), logger)
		result, err := fetcher.Fetch(ctx, "B0TEST12345")

		assert.ErrorIs(t, err, readyErr)
		assert.Nil(t, result)
		assert.Empty(t, upstream.pagesRequested)
	})
}

func TestFilterSince(t *testing.T) {
	reviews := []models.RawReview{
		{ReviewID: "old", ReviewDate: "Reviewed in the United States on January 5, 2024"},
		{ReviewID: "boundary", ReviewDate: "2024-06-01"},
		{ReviewID: "new", ReviewDate: "2024-06-02"},
		{ReviewID: "undated", ReviewDate: "no date here"},
	}

	t.Run("keeps only strictly newer reviews", func(t *testing.T) {
		filtered := FilterSince(reviews, "2024-06-01")
		require.Len(t, filtered, 1)
		assert.Equal(t, "new", filtered[0].ReviewID)
	})

	t.Run("empty since keeps everything", func(t *testing.T) {
		assert.Len(t, FilterSince(reviews, ""), len(reviews))
	})

	t.Run("unparsable dates are dropped", func(t *testing.T) {
		filtered := FilterSince(reviews, "2000-01-01")
		assert.Len(t, filtered, 3)
		for _, r := range filtered {
			assert.NotEqual(t, "undated", r.ReviewID)
		}
	})
}
