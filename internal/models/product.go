package models

import "time"

type Product struct {
	ID        int       `json:"id"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Unit      string    `json:"unit"` // kg, g, l, ml, m, cm, u
	Rubro     string    `json:"rubro"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	CostPrice float64   `json:"cost_price"`
	Stock     float64   `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Barcode   string  `json:"barcode"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Unit      string  `json:"unit"`
	Rubro     string  `json:"rubro"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Stock     float64 `json:"stock"`
}

// ProductFilter narrows the product set a bulk price update applies to
type ProductFilter struct {
	Rubro    string `json:"rubro"`
	Category string `json:"category"`
	Search   string `json:"search"`
}

// PriceField selects which price column a bulk update touches
type PriceField string

const (
	PriceFieldPrice     PriceField = "price"
	PriceFieldCostPrice PriceField = "cost_price"
)

// PriceMode selects how the update value is applied
type PriceMode string

const (
	PriceModePercent PriceMode = "percent"
	PriceModeFixed   PriceMode = "fixed"
)

// BulkPriceUpdateRequest applies a percent or fixed delta to a filtered set
type BulkPriceUpdateRequest struct {
	Filter ProductFilter `json:"filter"`
	Field  PriceField    `json:"field"`
	Mode   PriceMode     `json:"mode"`
	Value  float64       `json:"value"`
}

// PriceUpdateOutcome reports the per-item result of a bulk update
type PriceUpdateOutcome struct {
	ProductID int     `json:"product_id"`
	OldValue  float64 `json:"old_value"`
	NewValue  float64 `json:"new_value"`
	Updated   bool    `json:"updated"`
	Error     string  `json:"error,omitempty"`
}

// BulkPriceUpdateResult is the handler-facing confirmation payload
type BulkPriceUpdateResult struct {
	Affected int                  `json:"affected"`
	Outcomes []PriceUpdateOutcome `json:"outcomes"`
}
