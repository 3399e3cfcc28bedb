package parser

import (
	"strings"
)

// ProductState is the availability-relevant slice of a rendered product
// page, extracted by a store-specific parser.
type ProductState struct {
	// Price is the currently displayed price, 0 when not found on the page.
	Price float64
	// Sellable reflects the primary action control: false means the product
	// as a whole is gone (e.g. replaced by a "show similar" control) and
	// size-level state was not inspected.
	Sellable bool
	// InStock and LowStock hold normalized size labels. Low stock still
	// permits purchase, so it counts as available.
	InStock  []string
	LowStock []string
}

// Available reports whether the state satisfies a check for the given
// size. An empty size means any size in stock (or low stock) qualifies.
// A requested size absent from both sets is unavailable, even if the page
// renders it as a disabled control.
func (s *ProductState) Available(size string) bool {
	if !s.Sellable {
		return false
	}

	if size == "" {
		return len(s.InStock) > 0 || len(s.LowStock) > 0
	}

	want := NormalizeSize(size)
	return containsSize(s.InStock, want) || containsSize(s.LowStock, want)
}

// NormalizeSize canonicalizes a size label for exact matching.
func NormalizeSize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func containsSize(labels []string, want string) bool {
	for _, label := range labels {
		if label == want {
			return true
		}
	}
	return false
}
