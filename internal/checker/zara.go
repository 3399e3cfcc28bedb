package checker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"stockwatch/internal/models"
	"stockwatch/internal/parser"
)

const zaraContentSelector = "div.product-detail-info"

// ZaraStrategy checks a Zara product page. Navigation and popup handling
// happen in the browser, availability is read from the rendered HTML.
type ZaraStrategy struct {
	logger  *slog.Logger
	timeout float64
}

func NewZaraStrategy(logger *slog.Logger) *ZaraStrategy {
	return &ZaraStrategy{
		logger:  logger.With("component", "zara_strategy"),
		timeout: 10000,
	}
}

func (s *ZaraStrategy) Check(ctx context.Context, session Session, product models.Product) (Outcome, error) {
	html, err := fetchProductPage(session, product.URL, zaraPopups, zaraContentSelector, s.timeout, s.logger)
	if err != nil {
		return Outcome{}, err
	}

	state, err := parser.ParseZaraProduct(html)
	if err != nil {
		return Outcome{}, err
	}

	s.logger.Debug("parsed zara page",
		"product_id", product.ID,
		"price", state.Price,
		"in_stock_sizes", len(state.InStock),
		"low_stock_sizes", len(state.LowStock))

	return Outcome{
		InStock: state.Available(product.Size),
		Price:   state.Price,
	}, nil
}

// fetchProductPage runs the shared navigation flow: fresh page, navigate,
// clear overlays, wait for the store's content anchor, read the HTML. The
// page always closes, even on error paths.
func fetchProductPage(session Session, url string, popups popupSelectors, contentSelector string, timeout float64, logger *slog.Logger) (string, error) {
	page, err := session.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("failed to close page", "error", err)
		}
	}()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	dismissPopups(page, popups, logger)

	if _, err := page.WaitForSelector(contentSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(timeout),
	}); err != nil {
		return "", fmt.Errorf("product content did not appear: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}

	return html, nil
}
