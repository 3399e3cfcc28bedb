package checker

import (
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

// popupSelectors describes a store's overlay layer: the cookie consent
// button plus any extra modals that cover the size selector.
type popupSelectors struct {
	cookieAccept string
	// extraProbe/extraClose pairs: when the probe selector is present,
	// click its close selector.
	extras []popupPair
}

type popupPair struct {
	probe string
	close string
}

var zaraPopups = popupSelectors{
	cookieAccept: "button#onetrust-accept-btn-handler",
	extras: []popupPair{
		{
			probe: "div.geolocation-modal__container",
			close: "button.zds-dialog-close-button",
		},
	},
}

var mangoPopups = popupSelectors{
	cookieAccept: "button#cookies.button.acceptAll",
	extras: []popupPair{
		{
			probe: `[class^="Header_close"]`,
			close: `[class^="Header_close"]`,
		},
		{
			probe: `[class^="Header_area"] button`,
			close: `[class^="Header_area"] button`,
		},
	},
}

// dismissPopups clears cookie banners and modals best-effort. A popup that
// is absent or refuses to close is not an error: the content wait after
// navigation decides whether the page is usable.
func dismissPopups(page playwright.Page, selectors popupSelectors, logger *slog.Logger) {
	clickIfPresent(page, selectors.cookieAccept, logger)

	for _, pair := range selectors.extras {
		probe, err := page.QuerySelector(pair.probe)
		if err != nil || probe == nil {
			continue
		}
		clickIfPresent(page, pair.close, logger)
	}
}

func clickIfPresent(page playwright.Page, selector string, logger *slog.Logger) {
	if selector == "" {
		return
	}

	el, err := page.QuerySelector(selector)
	if err != nil || el == nil {
		return
	}

	if err := el.Click(); err != nil {
		logger.Debug("popup dismissal click failed", "selector", selector, "error", err)
		return
	}

	logger.Debug("dismissed popup", "selector", selector)
}
