// Package domain holds submission lifecycle types and sentinel errors.
// Sentinel errors are matched with errors.Is at stage boundaries.
package domain

import "errors"

// Submission-related errors
var (
	// ErrSubmissionNotFound indicates the requested submission does not exist
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrUnsupportedPlatform indicates the submission URL belongs to a
	// platform the pipeline cannot process
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrProductIDExtraction indicates no platform identifier could be
	// extracted from the submission URL
	ErrProductIDExtraction = errors.New("could not extract product ID from URL")
)

// Upstream client errors
var (
	// ErrMissingCredentials indicates upstream API credentials are absent.
	// Fatal before any network call is made.
	ErrMissingCredentials = errors.New("upstream API credentials not configured")

	// ErrProductDetailsUnavailable indicates the product-details call
	// failed. Non-fatal; review pagination still proceeds.
	ErrProductDetailsUnavailable = errors.New("product details unavailable")
)

// Analysis errors
var (
	// ErrAnalysisUnparsable indicates the analysis service response could
	// not be parsed as the expected structure at all
	ErrAnalysisUnparsable = errors.New("analysis response is not parsable")

	// ErrNoReviewText indicates no stored review carried text to analyze
	ErrNoReviewText = errors.New("no reviews with text content")

	// ErrAnalysisNotFound indicates the submission has no stored analysis
	ErrAnalysisNotFound = errors.New("analysis not found")
)
