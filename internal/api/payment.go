package api

import (
	"context"
	"net/http"

	"asdenim/pkg/domain"
)

// CheckoutItem is one cart line in the snap-token request.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// CheckoutRequest creates a Midtrans payment session for the cart.
type CheckoutRequest struct {
	CartItems      []CheckoutItem        `json:"cartItems"`
	AddressID      int64                 `json:"address_id"`
	ShippingOption domain.ShippingOption `json:"shipping_option"`
}

// SnapToken creates a payment session and returns the widget token the
// out-of-scope payment view embeds. Clearing the cart on success is the
// caller's responsibility.
func (c *Client) SnapToken(ctx context.Context, req CheckoutRequest) (string, error) {
	var resp struct {
		SnapToken string `json:"snapToken"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/midtrans/snap-token", req, &resp); err != nil {
		return "", err
	}
	return resp.SnapToken, nil
}
