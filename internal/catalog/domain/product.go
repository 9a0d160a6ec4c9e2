package domain

import "errors"

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PriceCents         int64  `json:"price_cents"`
	OriginalPriceCents int64  `json:"original_price_cents,omitempty"`
	DiscountPercent    int    `json:"discount_percent,omitempty"`
	Stock              int    `json:"stock"`
	Category           string `json:"category"`
	ImageURL           string `json:"image_url"`
}

// SearchCount is one row of the pharmacy search statistics view.
type SearchCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}
