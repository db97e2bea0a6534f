package api

import (
	"context"
	"fmt"
	"net/http"

	"asdenim/pkg/domain"
)

// Reviews lists reviews for a product. Works without a session; with one,
// the authenticated path lets the API mark the caller's own reviews.
func (c *Client) Reviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	var resp struct {
		Reviews []domain.Review `json:"reviews"`
	}
	path := fmt.Sprintf("/api/user/product/%d/reviews", productID)
	var err error
	if c.tokens.Token() != "" {
		err = c.doJSON(ctx, http.MethodGet, path, nil, &resp)
	} else {
		err = c.doPublicJSON(ctx, http.MethodGet, path, nil, &resp)
	}
	if err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

// ReviewEligibility reports whether the customer may review the product
// (purchased it, and has not reviewed it yet).
func (c *Client) ReviewEligibility(ctx context.Context, productID int64) (bool, error) {
	var resp struct {
		Eligible bool `json:"eligible"`
	}
	path := fmt.Sprintf("/api/user/product/%d/review-eligibility", productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.Eligible, nil
}

// CreateReview submits a rating and comment for a product.
func (c *Client) CreateReview(ctx context.Context, productID int64, rating int, comment string) (domain.Review, error) {
	payload := map[string]any{"rating": rating, "comment": comment}
	var review domain.Review
	path := fmt.Sprintf("/api/user/product/%d/reviews", productID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &review); err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// UpdateReview edits the customer's existing review.
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, rating int, comment string) (domain.Review, error) {
	payload := map[string]any{"rating": rating, "comment": comment}
	var review domain.Review
	path := fmt.Sprintf("/api/user/reviews/%d", reviewID)
	if err := c.doJSON(ctx, http.MethodPut, path, payload, &review); err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

// DeleteReview removes the customer's review.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	path := fmt.Sprintf("/api/user/reviews/%d", reviewID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
