package domain

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending            SubmissionStatus = "pending"
	StatusProcessing         SubmissionStatus = "processing"
	StatusDetailsFetched     SubmissionStatus = "details_fetched"
	StatusProcessingAnalysis SubmissionStatus = "processing_analysis"
	StatusCompleted          SubmissionStatus = "completed"
	StatusCompletedWithErrs  SubmissionStatus = "completed_with_errors"
	StatusCompletedNoReviews SubmissionStatus = "completed_no_reviews"
	StatusFailed             SubmissionStatus = "failed"
	StatusFailedNoReviews    SubmissionStatus = "failed_no_reviews"

	// StatusRefreshing marks a parent submission while one of its refresh
	// submissions is in flight. The refresh pipeline sets the parent back
	// to completed when it finishes.
	StatusRefreshing SubmissionStatus = "refreshing"
)

// Terminal reports whether the status is an end state of the pipeline.
func (s SubmissionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrs, StatusCompletedNoReviews,
		StatusFailed, StatusFailedNoReviews:
		return true
	}
	return false
}

// MaxErrorMessageLength bounds the error text stored on a failed submission.
const MaxErrorMessageLength = 500

// TruncateError shortens an error message to MaxErrorMessageLength runes
// for storage on the submission row.
func TruncateError(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxErrorMessageLength {
		return msg
	}
	return string(runes[:MaxErrorMessageLength])
}
