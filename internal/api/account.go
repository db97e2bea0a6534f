package api

import (
	"context"
	"fmt"
	"net/http"

	"asdenim/pkg/domain"
)

// Me returns the authenticated customer's profile.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/get_user", nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Orders lists the customer's order history.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/user_orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order with its line items.
func (c *Client) Order(ctx context.Context, id int64) (domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/api/user/user_orders/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Addresses lists the customer's saved shipping addresses.
func (c *Client) Addresses(ctx context.Context) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// DefaultAddress returns the address flagged as default, if any.
func (c *Client) DefaultAddress(ctx context.Context) (domain.Address, bool, error) {
	addresses, err := c.Addresses(ctx)
	if err != nil {
		return domain.Address{}, false, err
	}
	for _, addr := range addresses {
		if addr.IsDefault {
			return addr, true, nil
		}
	}
	return domain.Address{}, false, nil
}
