package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"asdenim/pkg/domain"
)

// Products lists the catalog. The endpoint is public.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.doPublicJSON(ctx, http.MethodGet, "/api/user/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ProductBySlug fetches one product's detail page payload.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var resp struct {
		Product *domain.Product `json:"product"`
	}
	path := fmt.Sprintf("/api/user/product/%s/detail", url.PathEscape(slug))
	if err := c.doPublicJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.Product{}, err
	}
	if resp.Product == nil {
		return domain.Product{}, fmt.Errorf("api: product %q: %w", slug, ErrNotFound)
	}
	return *resp.Product, nil
}

// ProductByID resolves a product by numeric ID, used for cart snapshots.
func (c *Client) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	var resp struct {
		Product *domain.Product `json:"product"`
	}
	path := fmt.Sprintf("/api/user/product/%s", url.PathEscape(id))
	if err := c.doPublicJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.Product{}, err
	}
	if resp.Product == nil {
		return domain.Product{}, fmt.Errorf("api: product %q: %w", id, ErrNotFound)
	}
	return *resp.Product, nil
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := c.doPublicJSON(ctx, http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}
