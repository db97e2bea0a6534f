package api

import (
	"context"
	"net/http"

	"asdenim/pkg/domain"
)

// Couriers queried for shipping quotes, cheapest-first per the API's
// "price" parameter.
const courierList = "jne:pos:tiki:sicepat:ide:sap:jnt:ninja:lion:anteraja:ncs:rex:rpx:sentral:star:wahana"

// ShippingQuote is the input to the shipping-cost calculation: destination
// postal code and total cart weight in grams.
type ShippingQuote struct {
	Destination string `json:"destination"`
	Weight      int    `json:"weight"`
	Courier     string `json:"courier"`
	Price       string `json:"price"`
}

// CalculateShippingCost returns courier options for the given destination
// and weight.
func (c *Client) CalculateShippingCost(ctx context.Context, destination string, weight int) ([]domain.ShippingOption, error) {
	payload := ShippingQuote{
		Destination: destination,
		Weight:      weight,
		Courier:     courierList,
		Price:       "lowest",
	}
	var options []domain.ShippingOption
	if err := c.doJSON(ctx, http.MethodPost, "/api/calculate-shipping-cost", payload, &options); err != nil {
		return nil, err
	}
	return options, nil
}
