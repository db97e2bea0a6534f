package domain

import "time"

// Product is the catalog representation returned by the commerce API.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"product_name"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	OriginalPrice int64          `json:"original_price"`
	SalePrice     int64          `json:"sale_price"`
	Weight        int            `json:"weight"`
	Stock         int            `json:"stock"`
	Sizes         []string       `json:"sizes"`
	Images        []ProductImage `json:"images"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ProductImage is a storage-relative image path.
type ProductImage struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// UnitPrice returns the effective price for one unit: the sale price when
// it is a real discount, otherwise the original price.
func (p Product) UnitPrice() int64 {
	if p.SalePrice > 0 && p.SalePrice < p.OriginalPrice {
		return p.SalePrice
	}
	return p.OriginalPrice
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"category_name"`
	Slug string `json:"slug"`
}

// User is the authenticated customer profile.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a past purchase as listed on the order history page.
type Order struct {
	ID           int64       `json:"id"`
	Status       OrderStatus `json:"status"`
	TotalAmount  int64       `json:"total_amount"`
	ShippingCost int64       `json:"shipping_cost"`
	Courier      string      `json:"courier"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
}

type OrderItem struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	Price       int64  `json:"price"`
}

// Address is a saved shipping destination; at most one is the default.
type Address struct {
	ID            int64  `json:"id"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
	IsDefault     bool   `json:"is_default"`
}

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ShippingOption is one courier quote from the shipping-cost calculation.
type ShippingOption struct {
	Courier     string `json:"courier"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	ETD         string `json:"etd"`
}
