package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrPriceNotFound = errors.New("price not found")

var nonPriceChars = regexp.MustCompile(`[^\d,.]`)

// ParsePrice normalizes a locale-formatted price string to a float64.
// Handles both comma-decimal ("45,99 €", "1.299,00") and dot-decimal
// ("49.99") notations; currency symbols and whitespace are stripped.
func ParsePrice(raw string) (float64, error) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, ErrPriceNotFound
	}

	if strings.Contains(cleaned, ",") {
		// Comma is the decimal separator, dots are thousand separators.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if strings.Count(cleaned, ".") > 1 {
		// Dot-grouped integer like "1.299" with no decimal part.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", raw, err)
	}

	return value, nil
}
