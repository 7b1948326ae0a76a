package models

import "encoding/json"

// RawReview is one review object as returned by the upstream review API.
// Field values are raw upstream strings; normalization happens in the
// write stage.
type RawReview struct {
	ReviewID             string          `json:"review_id"`
	ReviewTitle          string          `json:"review_title"`
	ReviewComment        string          `json:"review_comment"`
	ReviewStarRating     string          `json:"review_star_rating"`
	ReviewDate           string          `json:"review_date"`
	ReviewAuthor         string          `json:"review_author"`
	ReviewImages         []string        `json:"review_images"`
	IsVerifiedPurchase   bool            `json:"is_verified_purchase"`
	IsVine               bool            `json:"is_vine"`
	HelpfulVoteStatement string          `json:"helpful_vote_statement"`
	Raw                  json.RawMessage `json:"-"`
}

// ProductDetails is the normalized product metadata extracted from the
// upstream product-details response.
type ProductDetails struct {
	ASIN         string
	Title        string
	URL          string
	Description  string
	Currency     string
	Availability string
	SalesVolume  string

	IsBestSeller          bool
	IsAmazonChoice        bool
	IsPrime               bool
	ClimatePledgeFriendly bool

	Price      *float64
	Rating     *float64
	NumRatings *int

	Brand    string
	Category string

	Features       []string
	Images         []string
	Specifications map[string]string
	DetailsMisc    map[string]string
	Variants       json.RawMessage

	// RawPayload is the upstream data section, retained verbatim.
	RawPayload json.RawMessage
}
