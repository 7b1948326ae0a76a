package models

import (
	"encoding/json"
	"time"

	"review-processor/domain"
)

// Submission is one unit of "scrape and analyze reviews for this URL" work.
type Submission struct {
	ID                  string                  `db:"id"`
	UserID              string                  `db:"user_id"`
	URL                 string                  `db:"url"`
	Platform            domain.Platform         `db:"platform"`
	Status              domain.SubmissionStatus `db:"status"`
	IsCompetitorProduct bool                    `db:"is_competitor_product"`

	// Product metadata, populated once details are fetched.
	ProductTitle          *string         `db:"product_title"`
	BrandName             *string         `db:"brand_name"`
	CategoryName          *string         `db:"category_name"`
	Price                 *float64        `db:"price"`
	Currency              *string         `db:"currency"`
	ProductRating         *float64        `db:"product_overall_rating"`
	ProductNumRatings     *int            `db:"product_num_ratings"`
	Availability          *string         `db:"availability"`
	ProductDescription    *string         `db:"product_description"`
	ASIN                  *string         `db:"asin"`
	SalesVolume           *string         `db:"sales_volume"`
	IsBestSeller          bool            `db:"is_best_seller"`
	IsAmazonChoice        bool            `db:"is_amazon_choice"`
	IsPrime               bool            `db:"is_prime"`
	ClimatePledgeFriendly bool            `db:"climate_pledge_friendly"`
	ProductFeatures       json.RawMessage `db:"product_features"`
	ProductImages         json.RawMessage `db:"product_images"`
	ProductSpecifications json.RawMessage `db:"product_specifications"`
	ProductDetailsMisc    json.RawMessage `db:"product_details_misc"`
	ProductVariants       json.RawMessage `db:"product_variants"`
	RawProductPayload     json.RawMessage `db:"api_response_product_details"`

	// RefreshParentID links a refresh submission to the submission whose
	// analysis it updates. Always references a non-refresh submission.
	RefreshParentID *string `db:"refresh_parent_id"`

	// RecurringParentID links a scheduler-created submission to the
	// origin submission it was cloned from.
	RecurringParentID *string `db:"recurring_parent_id"`

	ErrorMessage    *string    `db:"error_message"`
	CreatedAt       time.Time  `db:"created_at"`
	LastRefreshedAt *time.Time `db:"last_refreshed_at"`
}

// IsRefresh reports whether this submission updates a parent's analysis.
func (s *Submission) IsRefresh() bool {
	return s.RefreshParentID != nil && *s.RefreshParentID != ""
}
