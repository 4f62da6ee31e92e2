package models

import (
	"net/url"
	"time"
)

// Product is a catalogue item: a material sold per unit (bag, ton, cubic
// meter) with quantity-tiered pricing.
type Product struct {
	ID        string      `json:"id" validate:"required"`
	Name      string      `json:"name"`
	Category  string      `json:"category,omitempty"`
	Unit      string      `json:"unit"`
	UnitPrice float64     `json:"unit_price"`
	Tiers     []PriceTier `json:"tiers,omitempty"`
	Available bool        `json:"available"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PriceTier discounts the unit price from a minimum quantity upward.
type PriceTier struct {
	MinQuantity float64 `json:"min_quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

func (p Product) EntityID() string { return p.ID }

type ProductFilter struct {
	Category string
	Search   string
}

func (f ProductFilter) CacheFilter() map[string]string {
	m := map[string]string{}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.Search != "" {
		m["q"] = f.Search
	}
	return m
}

func (f ProductFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	return q
}

type CreateProductParams struct {
	Name      string      `json:"name" validate:"required"`
	Category  string      `json:"category,omitempty"`
	Unit      string      `json:"unit" validate:"required"`
	UnitPrice float64     `json:"unit_price" validate:"required,gt=0"`
	Tiers     []PriceTier `json:"tiers,omitempty" validate:"omitempty,dive"`
}

type UpdateProductParams struct {
	Name      string      `json:"name,omitempty"`
	Category  string      `json:"category,omitempty"`
	Unit      string      `json:"unit,omitempty"`
	UnitPrice float64     `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	Tiers     []PriceTier `json:"tiers,omitempty" validate:"omitempty,dive"`
	Available *bool       `json:"available,omitempty"`
}
