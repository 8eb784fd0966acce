package models

import "time"

// Variant carries a price/mrp override used when a product is sold under a
// default variant (e.g. "1L" for milk) instead of its base price.
type Variant struct {
	Price float64 `json:"price"`
	MRP   float64 `json:"mrp"`
}

// Product is a single catalog entry. Only products with StockQuantity > 0
// ever enter the recommendation pipeline.
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	CategoryID      *int64    `json:"categoryId,omitempty"`
	StockQuantity   int       `json:"stockQuantity"`
	CreatedAt       time.Time `json:"createdAt"`
	DiscountPercent *float64  `json:"discountPercent,omitempty"`
	DefaultVariant  *Variant  `json:"defaultVariant,omitempty"`
}

// EffectivePrice returns the variant price when a default variant overrides
// the base price.
func (p *Product) EffectivePrice() float64 {
	if p.DefaultVariant != nil {
		return p.DefaultVariant.Price
	}
	return p.Price
}
