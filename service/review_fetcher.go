package service

import (
	"context"
	"log/slog"

	"review-processor/config"
	"review-processor/models"
	"review-processor/normalizer"
	"review-processor/ratelimit"
)

// UpstreamClient is what the fetcher needs from the review API driver.
type UpstreamClient interface {
	Ready() error
	ProductDetails(ctx context.Context, productID string) (*models.ProductDetails, error)
	ReviewPage(ctx context.Context, productID string, page int) ([]models.RawReview, error)
}

type reviewFetcher struct {
	client     UpstreamClient
	limiter    *ratelimit.IntervalLimiter
	maxPages   int
	maxReviews int
	logger     *slog.Logger
}

func NewReviewFetcherService(client UpstreamClient, cfg config.ScraperConfig, logger *slog.Logger) ReviewFetcherService {
	return &reviewFetcher{
		client:     client,
		limiter:    ratelimit.NewIntervalLimiter(cfg.PageDelay),
		maxPages:   cfg.MaxPages,
		maxReviews: cfg.MaxReviews,
		logger:     logger,
	}
}

// Fetch walks review pages sequentially starting at page 1. An empty page
// ends pagination normally; a page error ends pagination keeping whatever
// was collected so far. A failed product-details call is non-fatal and
// leaves Details nil. Missing upstream credentials are fatal.
func (f *reviewFetcher) Fetch(ctx context.Context, productID string) (*FetchResult, error) {
	if err := f.client.Ready(); err != nil {
		return nil, err
	}

	result := &FetchResult{}

	details, err := f.client.ProductDetails(ctx, productID)
	if err != nil {
		f.logger.WarnContext(ctx, "product details unavailable, continuing without metadata",
			"product_id", productID,
			"error", err)
	} else {
		result.Details = details
	}

	for page := 1; page <= f.maxPages; page++ {
		if err := f.limiter.Wait(ctx); err != nil {
			f.logger.WarnContext(ctx, "pagination cancelled, keeping partial results",
				"product_id", productID,
				"page", page,
				"reviews_collected", len(result.Reviews))
			return result, nil
		}

		reviews, err := f.client.ReviewPage(ctx, productID, page)
		if err != nil {
			f.logger.WarnContext(ctx, "review page fetch failed, keeping partial results",
				"product_id", productID,
				"page", page,
				"reviews_collected", len(result.Reviews),
				"error", err)
			return result, nil
		}
		if len(reviews) == 0 {
			break
		}

		result.Pages++
		result.Reviews = append(result.Reviews, reviews...)
		if len(result.Reviews) >= f.maxReviews {
			result.Reviews = result.Reviews[:f.maxReviews]
			result.Truncated = true
			f.logger.InfoContext(ctx, "review ceiling reached, stopping pagination",
				"product_id", productID,
				"pages", result.Pages,
				"reviews", len(result.Reviews))
			break
		}
	}

	return result, nil
}

// FilterSince drops reviews not strictly newer than since (an ISO
// YYYY-MM-DD date). Reviews whose date cannot be normalized are dropped
// too, since their recency cannot be established. Upstream offers no
// date-windowed queries, so this post-filter over fetched pages is an
// approximation: older submissions past the page ceiling are never seen.
func FilterSince(reviews []models.RawReview, since string) []models.RawReview {
	if since == "" {
		return reviews
	}
	filtered := make([]models.RawReview, 0, len(reviews))
	for _, r := range reviews {
		date, ok := normalizer.ReviewDate(r.ReviewDate)
		if !ok {
			continue
		}
		if date > since {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
