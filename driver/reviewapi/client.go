// Package reviewapi is the HTTP driver for the third-party product-review
// API (RapidAPI-hosted). It performs single calls; pagination policy lives
// in the service layer.
package reviewapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"review-processor/config"
	"review-processor/domain"
	"review-processor/models"
	"review-processor/normalizer"
)

// Client calls the upstream API with header-based credentials and
// per-call context timeouts.
type Client struct {
	cfg    config.UpstreamConfig
	base   string
	http   *http.Client
	logger *slog.Logger
}

func New(cfg config.UpstreamConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		base:   "https://" + cfg.Host,
		http:   &http.Client{},
		logger: logger,
	}
}

// Ready reports whether credentials are configured. Checked by the
// pipeline before any network call.
func (c *Client) Ready() error {
	if !c.cfg.HasCredentials() {
		return domain.ErrMissingCredentials
	}
	return nil
}

type productDetailsResponse struct {
	Data json.RawMessage `json:"data"`
}

type productData struct {
	ASIN                  string            `json:"asin"`
	ProductTitle          string            `json:"product_title"`
	ProductURL            string            `json:"product_url"`
	ProductDescription    string            `json:"product_description"`
	Currency              string            `json:"currency"`
	ProductAvailability   string            `json:"product_availability"`
	SalesVolume           string            `json:"sales_volume"`
	IsBestSeller          bool              `json:"is_best_seller"`
	IsAmazonChoice        bool              `json:"is_amazon_choice"`
	IsPrime               bool              `json:"is_prime"`
	ClimatePledgeFriendly bool              `json:"climate_pledge_friendly"`
	ProductPrice          string            `json:"product_price"`
	ProductStarRating     string            `json:"product_star_rating"`
	ProductNumRatings     *int              `json:"product_num_ratings"`
	ProductByline         string            `json:"product_byline"`
	Category              struct {
		Name string `json:"name"`
	} `json:"category"`
	AboutProduct         []string          `json:"about_product"`
	ProductPhotos        []string          `json:"product_photos"`
	ProductInformation   map[string]string `json:"product_information"`
	ProductDetails       map[string]string `json:"product_details"`
	AllProductVariations json.RawMessage   `json:"all_product_variations"`
}

// ProductDetails fetches and normalizes product metadata for an
// identifier. All failures wrap domain.ErrProductDetailsUnavailable so
// the caller can treat them as non-fatal.
func (c *Client) ProductDetails(ctx context.Context, productID string) (*models.ProductDetails, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/product-details", url.Values{
		"asin":    {productID},
		"country": {c.cfg.Country},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProductDetailsUnavailable, err)
	}

	var resp productDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", domain.ErrProductDetailsUnavailable, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no data section in response", domain.ErrProductDetailsUnavailable)
	}

	var data productData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed data section: %w", domain.ErrProductDetailsUnavailable, err)
	}

	if data.ProductTitle == "" {
		return nil, fmt.Errorf("%w: product_title missing", domain.ErrProductDetailsUnavailable)
	}

	details := &models.ProductDetails{
		ASIN:                  data.ASIN,
		Title:                 data.ProductTitle,
		URL:                   data.ProductURL,
		Description:           data.ProductDescription,
		Currency:              data.Currency,
		Availability:          data.ProductAvailability,
		SalesVolume:           data.SalesVolume,
		IsBestSeller:          data.IsBestSeller,
		IsAmazonChoice:        data.IsAmazonChoice,
		IsPrime:               data.IsPrime,
		ClimatePledgeFriendly: data.ClimatePledgeFriendly,
		Category:              data.Category.Name,
		Features:              data.AboutProduct,
		Images:                data.ProductPhotos,
		Specifications:        data.ProductInformation,
		DetailsMisc:           data.ProductDetails,
		Variants:              data.AllProductVariations,
		RawPayload:            resp.Data,
	}

	// Structured brand data wins over the byline.
	if brand := data.ProductDetails["Brand"]; brand != "" {
		details.Brand = brand
	} else {
		details.Brand = data.ProductByline
	}

	// Normalization failures leave the field nil, never fail the fetch.
	if v, ok := normalizer.Price(data.ProductPrice); ok {
		details.Price = &v
	}
	if v, ok := normalizer.Rating(data.ProductStarRating); ok {
		details.Rating = &v
	}
	details.NumRatings = data.ProductNumRatings

	return details, nil
}

type reviewPageResponse struct {
	Data struct {
		Reviews []json.RawMessage `json:"reviews"`
	} `json:"data"`
	// Older response shape carried reviews at the top level.
	Reviews []json.RawMessage `json:"reviews"`
}

// ReviewPage fetches one page of reviews. An empty slice with a nil error
// signals the natural end of pagination.
func (c *Client) ReviewPage(ctx context.Context, productID string, page int) ([]models.RawReview, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "/product-reviews", url.Values{
		"asin":                    {productID},
		"country":                 {c.cfg.Country},
		"page":                    {strconv.Itoa(page)},
		"sort_by":                 {"TOP_REVIEWS"},
		"star_rating":             {"ALL"},
		"verified_purchases_only": {"false"},
		"images_or_videos_only":   {"false"},
		"current_format_only":     {"false"},
	})
	if err != nil {
		return nil, err
	}

	var resp reviewPageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("review page %d is not valid JSON: %w", page, err)
	}

	rawList := resp.Data.Reviews
	if rawList == nil {
		rawList = resp.Reviews
	}

	reviews := make([]models.RawReview, 0, len(rawList))

	for _, raw := range rawList {
		var r models.RawReview
		if err := json.Unmarshal(raw, &r); err != nil {
			c.logger.WarnContext(ctx, "skipping malformed review object",
				"page", page, "error", err)
			continue
		}
		r.Raw = raw
		reviews = append(reviews, r)
	}

	return reviews, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqURL := c.base + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-RapidAPI-Key", c.cfg.Key)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upstream API returned %s: %s", resp.Status, string(bodyBytes))
	}

	return io.ReadAll(resp.Body)
}
