package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockwatch/internal/models"
)

func TestFormatInStock(t *testing.T) {
	product := models.Product{
		ID:   7,
		URL:  "https://www.zara.com/de/de/jacke-p01.html",
		Size: "M",
	}

	msg := formatInStock(product)
	assert.Contains(t, msg, "IN STOCK")
	assert.Contains(t, msg, "ID: 7")
	assert.Contains(t, msg, "Size: M")
	assert.Contains(t, msg, product.URL)
}

func TestFormatInStock_AnySize(t *testing.T) {
	product := models.Product{ID: 7, URL: "https://example.com"}

	msg := formatInStock(product)
	assert.Contains(t, msg, "Size: ANY")
}

func TestFormatPriceAlert(t *testing.T) {
	base := models.Product{ID: 1, Price: 59.99, URL: "https://example.com"}

	tests := []struct {
		name     string
		stored   float64
		newPrice float64
		policy   PriceAlertPolicy
		wantOK   bool
		contains string
	}{
		{
			name:     "drop always alerts",
			stored:   59.99,
			newPrice: 45.99,
			policy:   PriceAlertsDropsOnly,
			wantOK:   true,
			contains: "Price dropped",
		},
		{
			name:     "increase alerts under all-changes",
			stored:   59.99,
			newPrice: 69.99,
			policy:   PriceAlertsAllChanges,
			wantOK:   true,
			contains: "Price increased",
		},
		{
			name:     "increase suppressed under drops-only",
			stored:   59.99,
			newPrice: 69.99,
			policy:   PriceAlertsDropsOnly,
			wantOK:   false,
		},
		{
			name:     "first observation never alerts",
			stored:   0,
			newPrice: 45.99,
			policy:   PriceAlertsAllChanges,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := base
			product.Price = tt.stored

			msg, ok := formatPriceAlert(product, tt.newPrice, tt.policy)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Contains(t, msg, tt.contains)
				assert.Contains(t, msg, product.URL)
			}
		})
	}
}

func TestFormatOperatorAlert(t *testing.T) {
	product := models.Product{URL: "https://example.com/p1"}
	err := assert.AnError

	msg := formatOperatorAlert(product, err)
	assert.Contains(t, msg, "Stock check failed")
	assert.Contains(t, msg, product.URL)
	assert.Contains(t, msg, err.Error())
}
