package models

import (
	"time"
)

// Store identifies which site a product lives on and therefore which
// checking strategy applies to it.
type Store string

const (
	StoreZara  Store = "zara"
	StoreMango Store = "mango"
)

// Product is a tracked item. ID is assigned by the database on insert and
// stable for the product's lifetime. Price holds the last observed value
// (0 until the first successful check); history lives in check_logs.
type Product struct {
	ID      int64   `json:"id" db:"id"`
	OwnerID int64   `json:"owner_id" db:"owner_id"`
	Store   Store   `json:"store" db:"store"`
	URL     string  `json:"url" db:"url"`
	Size    string  `json:"size,omitempty" db:"size"` // empty means any size in stock satisfies the check
	Active  bool    `json:"active" db:"active"`
	Price   float64 `json:"price" db:"price"`
}

// WantsSize reports whether the owner asked for a specific size variant.
func (p Product) WantsSize() bool {
	return p.Size != ""
}

// CheckLog is one append-only row per check attempt.
type CheckLog struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	CheckedAt time.Time `json:"checked_at" db:"checked_at"`
	InStock   bool      `json:"in_stock" db:"in_stock"`
	Price     float64   `json:"price" db:"price"`
	Error     string    `json:"error,omitempty" db:"error"`
}
