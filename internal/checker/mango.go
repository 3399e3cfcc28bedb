package checker

import (
	"context"
	"log/slog"

	"stockwatch/internal/models"
	"stockwatch/internal/parser"
)

const mangoContentSelector = "#pdp-size-selector"

// MangoStrategy checks a Mango product page.
type MangoStrategy struct {
	logger  *slog.Logger
	timeout float64
}

func NewMangoStrategy(logger *slog.Logger) *MangoStrategy {
	return &MangoStrategy{
		logger:  logger.With("component", "mango_strategy"),
		timeout: 10000,
	}
}

func (s *MangoStrategy) Check(ctx context.Context, session Session, product models.Product) (Outcome, error) {
	html, err := fetchProductPage(session, product.URL, mangoPopups, mangoContentSelector, s.timeout, s.logger)
	if err != nil {
		return Outcome{}, err
	}

	state, err := parser.ParseMangoProduct(html)
	if err != nil {
		return Outcome{}, err
	}

	s.logger.Debug("parsed mango page",
		"product_id", product.ID,
		"price", state.Price,
		"in_stock_sizes", len(state.InStock))

	return Outcome{
		InStock: state.Available(product.Size),
		Price:   state.Price,
	}, nil
}
