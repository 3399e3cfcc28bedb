package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mango encodes availability in the size button ids inside
// #pdp-size-selector: an id containing "sizeAvailable" is purchasable,
// "sizeUnavailable" is not. Some page variants omit the id and carry a
// SizeItemContent_notAvailable class on sold-out buttons instead. The CSS
// module class names are hash-suffixed, so matching is on prefixes.
func ParseMangoProduct(html string) (*ProductState, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse mango page: %w", err)
	}

	state := &ProductState{}

	priceText := doc.Find(`span[class*="SinglePrice_finalPrice"]`).First().Text()
	if price, err := ParsePrice(priceText); err == nil {
		state.Price = price
	}

	root := doc.Find("#pdp-size-selector")
	if root.Length() == 0 {
		// No size selector at all means the product page no longer sells.
		return state, nil
	}
	state.Sellable = true

	root.Find("button").Each(func(_ int, btn *goquery.Selection) {
		label := NormalizeSize(btn.Find(`span[class*="textActionM"]`).First().Text())
		if label == "" {
			return
		}

		id, _ := btn.Attr("id")
		switch {
		case strings.Contains(id, "sizeAvailable"):
			state.InStock = append(state.InStock, label)
		case strings.Contains(id, "sizeUnavailable"):
			// Disabled control, size stays out of both sets.
		case btn.Find(`[class*="SizeItemContent_notAvailable"]`).Length() == 0:
			state.InStock = append(state.InStock, label)
		}
	})

	return state, nil
}
