package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"review-processor/domain"
	"review-processor/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionColumns = `
	id, user_id, url, platform, status, is_competitor_product,
	product_title, brand_name, category_name, price, currency,
	product_overall_rating, product_num_ratings, availability,
	product_description, asin, refresh_parent_id, recurring_parent_id,
	error_message, created_at, last_refreshed_at
`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	s := &models.Submission{}

	err := row.Scan(
		&s.ID, &s.UserID, &s.URL, &s.Platform, &s.Status, &s.IsCompetitorProduct,
		&s.ProductTitle, &s.BrandName, &s.CategoryName, &s.Price, &s.Currency,
		&s.ProductRating, &s.ProductNumRatings, &s.Availability,
		&s.ProductDescription, &s.ASIN, &s.RefreshParentID, &s.RecurringParentID,
		&s.ErrorMessage, &s.CreatedAt, &s.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// GetSubmissionByID loads a single submission.
func GetSubmissionByID(ctx context.Context, db *pgxpool.Pool, id string) (*models.Submission, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	s, err := scanSubmission(db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// GetPendingSubmissions returns up to limit submissions awaiting pickup,
// oldest first.
func GetPendingSubmissions(ctx context.Context, db *pgxpool.Pool, limit int) ([]*models.Submission, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	query := `SELECT ` + submissionColumns + `
		FROM submissions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := db.Query(ctx, query, domain.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*models.Submission

	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

// UpdateSubmissionStatus sets a submission's status.
func UpdateSubmissionStatus(ctx context.Context, db *pgxpool.Pool, id string, status domain.SubmissionStatus) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	_, err := db.Exec(ctx, `UPDATE submissions SET status = $1 WHERE id = $2`, status, id)

	return err
}

// MarkSubmissionFailed sets status to failed and stores the truncated
// error message.
func MarkSubmissionFailed(ctx context.Context, db *pgxpool.Pool, id string, message string) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	_, err := db.Exec(ctx,
		`UPDATE submissions SET status = $1, error_message = $2 WHERE id = $3`,
		domain.StatusFailed, domain.TruncateError(message), id)

	return err
}

// UpdateSubmissionProductDetails persists normalized product metadata and
// moves the submission to details_fetched.
func UpdateSubmissionProductDetails(ctx context.Context, db *pgxpool.Pool, id string, platform domain.Platform, d *models.ProductDetails) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	features, err := json.Marshal(d.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	images, err := json.Marshal(d.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	specs, err := json.Marshal(d.Specifications)
	if err != nil {
		return fmt.Errorf("failed to marshal specifications: %w", err)
	}

	misc, err := json.Marshal(d.DetailsMisc)
	if err != nil {
		return fmt.Errorf("failed to marshal details misc: %w", err)
	}

	query := `
		UPDATE submissions SET
			platform = $1,
			product_title = $2,
			brand_name = $3,
			category_name = $4,
			price = $5,
			currency = $6,
			product_overall_rating = $7,
			product_num_ratings = $8,
			availability = $9,
			product_description = $10,
			asin = $11,
			sales_volume = $12,
			is_best_seller = $13,
			is_amazon_choice = $14,
			is_prime = $15,
			climate_pledge_friendly = $16,
			product_features = $17,
			product_images = $18,
			product_specifications = $19,
			product_details_misc = $20,
			product_variants = $21,
			api_response_product_details = $22,
			status = $23
		WHERE id = $24`

	_, err = db.Exec(ctx, query,
		platform,
		nullIfEmpty(d.Title),
		nullIfEmpty(d.Brand),
		nullIfEmpty(d.Category),
		d.Price,
		nullIfEmpty(d.Currency),
		d.Rating,
		d.NumRatings,
		nullIfEmpty(d.Availability),
		nullIfEmpty(d.Description),
		nullIfEmpty(d.ASIN),
		nullIfEmpty(d.SalesVolume),
		d.IsBestSeller,
		d.IsAmazonChoice,
		d.IsPrime,
		d.ClimatePledgeFriendly,
		features,
		images,
		specs,
		misc,
		rawOrNull(d.Variants),
		rawOrNull(d.RawPayload),
		domain.StatusDetailsFetched,
		id)

	return err
}

// CompleteRefreshParent returns a parent submission to completed and
// stamps last_refreshed_at after a refresh run finishes.
func CompleteRefreshParent(ctx context.Context, db *pgxpool.Pool, parentID string, refreshedAt time.Time) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	_, err := db.Exec(ctx,
		`UPDATE submissions SET status = $1, last_refreshed_at = $2 WHERE id = $3`,
		domain.StatusCompleted, refreshedAt, parentID)

	return err
}

// InsertSubmissionClone creates a new pending submission from an origin
// submission on behalf of the recurring scheduler. Returns the new id.
func InsertSubmissionClone(ctx context.Context, db *pgxpool.Pool, origin *models.Submission, userID string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("database connection is nil")
	}

	id := uuid.NewString()

	query := `
		INSERT INTO submissions (id, user_id, url, platform, status, is_competitor_product, recurring_parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := db.Exec(ctx, query,
		id, userID, origin.URL, origin.Platform, domain.StatusPending,
		origin.IsCompetitorProduct, origin.ID)
	if err != nil {
		return "", err
	}

	return id, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rawOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
