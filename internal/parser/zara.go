package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Zara marks size state through data-qa-action attributes on the size
// selector buttons: size-in-stock, size-low-on-stock, size-out-of-stock.
// When a product is gone entirely the add-to-cart button is replaced by a
// "show similar products" control.
func ParseZaraProduct(html string) (*ProductState, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse zara page: %w", err)
	}

	state := &ProductState{}

	priceText := doc.Find("span.price-current__amount .money-amount__main").First().Text()
	if priceText == "" {
		priceText = doc.Find(".money-amount__main").First().Text()
	}
	if price, err := ParsePrice(priceText); err == nil {
		state.Price = price
	}

	// Product-level short circuit: no size query when the page only offers
	// similar products.
	if doc.Find(`[data-qa-action="show-similar-products"]`).Length() > 0 {
		return state, nil
	}

	state.Sellable = doc.Find(`[data-qa-action="add-to-cart"]`).Length() > 0

	doc.Find("li.size-selector-sizes__size").Each(func(_ int, item *goquery.Selection) {
		label := NormalizeSize(item.Find(`[data-qa-qualifier="size-selector-sizes-size-label"]`).First().Text())
		if label == "" {
			return
		}

		action, _ := item.Find("button").First().Attr("data-qa-action")
		switch action {
		case "size-in-stock":
			state.InStock = append(state.InStock, label)
		case "size-low-on-stock":
			state.LowStock = append(state.LowStock, label)
		}
	})

	return state, nil
}
