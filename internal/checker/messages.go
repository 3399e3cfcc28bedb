package checker

import (
	"fmt"

	"stockwatch/internal/models"
)

func formatInStock(product models.Product) string {
	size := product.Size
	if size == "" {
		size = "ANY"
	}
	return fmt.Sprintf("🔥 IN STOCK!\nID: %d\nSize: %s\n%s", product.ID, size, product.URL)
}

// formatPriceAlert builds the owner message for a price change, or reports
// ok=false when the policy suppresses it. The first observed price (stored
// price still zero) never alerts.
func formatPriceAlert(product models.Product, newPrice float64, policy PriceAlertPolicy) (string, bool) {
	if product.Price == 0 {
		return "", false
	}

	if newPrice < product.Price {
		return fmt.Sprintf("📉 Price dropped\nOld: %.2f\nNew: %.2f\n%s",
			product.Price, newPrice, product.URL), true
	}

	if policy == PriceAlertsDropsOnly {
		return "", false
	}

	return fmt.Sprintf("📈 Price increased\nOld: %.2f\nNew: %.2f\n%s",
		product.Price, newPrice, product.URL), true
}

func formatOperatorAlert(product models.Product, err error) string {
	return fmt.Sprintf("❌ Stock check failed\nProduct: %s\nError: %v", product.URL, err)
}
