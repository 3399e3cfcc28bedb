package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"stockwatch/internal/models"
)

// ProductStore is the persistence surface the engine consumes.
type ProductStore interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	UpdatePrice(ctx context.Context, id int64, price float64) error
	AppendCheckLog(ctx context.Context, entry models.CheckLog) error
	// LastResult reports the in-stock state of the latest check-log row,
	// false when the product was never checked.
	LastResult(ctx context.Context, productID int64) (bool, error)
}

// Notifier delivers owner and operator messages. Fire and forget: delivery
// failures are logged by the caller and never retried.
type Notifier interface {
	NotifyOwner(ctx context.Context, ownerID int64, text string) error
	NotifyOperator(ctx context.Context, text string) error
}

// Session is the per-batch browser handle shared by all check tasks. Each
// task opens its own page; the session itself (cookies, browser process) is
// shared.
type Session interface {
	NewPage() (playwright.Page, error)
	Close() error
}

// Outcome is what a strategy reports back for one successful check.
// Persistence of a changed price is the orchestrator's job, not the
// strategy's.
type Outcome struct {
	InStock bool
	Price   float64 // 0 when the page did not expose a readable price
}

// Strategy checks one product against its rendered page.
type Strategy interface {
	Check(ctx context.Context, session Session, product models.Product) (Outcome, error)
}

// Result is the orchestrator's per-product verdict for one batch.
type Result struct {
	Product models.Product
	InStock bool
	Err     error // set on terminal failure, already alerted and logged
	Skipped bool  // no strategy registered for the product's store
}

type Config struct {
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Concurrency: 3,
		MaxRetries:  2,
		RetryDelay:  2 * time.Second,
	}
}

// Checker runs availability batches: one shared browser session per run,
// a capped number of concurrent per-product tasks, bounded retries, and
// notification/persistence side effects on the way out.
type Checker struct {
	store      ProductStore
	notifier   Notifier
	registry   *Registry
	newSession func() (Session, error)
	cfg        Config
	logger     *slog.Logger
}

func New(store ProductStore, notifier Notifier, registry *Registry, newSession func() (Session, error), cfg Config, logger *slog.Logger) *Checker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}

	return &Checker{
		store:      store,
		notifier:   notifier,
		registry:   registry,
		newSession: newSession,
		cfg:        cfg,
		logger:     logger.With("component", "checker"),
	}
}

// RunBatch checks every active product once. The browser session is opened
// only when there is work and released exactly once on all exit paths. One
// product's failure never aborts its siblings; the batch joins all tasks
// before returning.
func (c *Checker) RunBatch(ctx context.Context) ([]Result, error) {
	products, err := c.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}

	if len(products) == 0 {
		c.logger.Debug("no active products, skipping batch")
		return nil, nil
	}

	session, err := c.newSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			c.logger.Error("failed to close browser session", "error", err)
		}
	}()

	c.logger.Info("starting batch", "products", len(products), "concurrency", c.cfg.Concurrency)

	results := make([]Result, len(products))
	sem := make(chan struct{}, c.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, product := range products {
		wg.Add(1)
		go func(i int, product models.Product) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.checkProduct(ctx, session, product)
		}(i, product)
	}
	wg.Wait()

	c.logger.Info("batch finished", "products", len(products))

	return results, nil
}

func (c *Checker) checkProduct(ctx context.Context, session Session, product models.Product) Result {
	logger := c.logger.With("product_id", product.ID, "store", product.Store)

	entry, ok := c.registry.Lookup(product.Store)
	if !ok {
		// Misconfigured product: skip without retry, never stall the batch.
		logger.Warn("no strategy for store, skipping product", "url", product.URL)
		return Result{Product: product, Skipped: true}
	}

	outcome, err := c.checkWithRetry(ctx, entry.Strategy, session, product, logger)
	if err != nil {
		c.escalate(ctx, product, err, logger)
		return Result{Product: product, InStock: false, Err: err}
	}

	c.record(ctx, product, outcome, entry.PriceAlerts, logger)

	return Result{Product: product, InStock: outcome.InStock}
}

// checkWithRetry drives the bounded retry loop: MaxRetries+1 attempts with
// a fixed delay in between, all on the same browser session.
func (c *Checker) checkWithRetry(ctx context.Context, strategy Strategy, session Session, product models.Product, logger *slog.Logger) (Outcome, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Info("retrying check", "attempt", attempt+1, "error", lastErr)
			select {
			case <-ctx.Done():
				return Outcome{}, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		outcome, err := strategy.Check(ctx, session, product)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
	}

	return Outcome{}, fmt.Errorf("check failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

// escalate handles a terminal failure: one operator alert, one check-log
// row carrying the error, and a fail-closed "not available" verdict.
func (c *Checker) escalate(ctx context.Context, product models.Product, checkErr error, logger *slog.Logger) {
	logger.Error("check failed permanently", "url", product.URL, "error", checkErr)

	if err := c.notifier.NotifyOperator(ctx, formatOperatorAlert(product, checkErr)); err != nil {
		logger.Error("operator alert delivery failed", "error", err)
	}

	entry := models.CheckLog{
		ProductID: product.ID,
		InStock:   false,
		Price:     product.Price,
		Error:     checkErr.Error(),
	}
	if err := c.store.AppendCheckLog(ctx, entry); err != nil {
		logger.Error("failed to append check log", "error", err)
	}
}

// record applies the side effects of a successful check: the check-log row,
// the price upsert, and owner notifications for price changes and for the
// transition into stock.
func (c *Checker) record(ctx context.Context, product models.Product, outcome Outcome, alerts PriceAlertPolicy, logger *slog.Logger) {
	wasInStock, err := c.store.LastResult(ctx, product.ID)
	if err != nil {
		logger.Error("failed to read last check result", "error", err)
		wasInStock = false
	}

	loggedPrice := product.Price
	if outcome.Price > 0 {
		loggedPrice = outcome.Price
	}

	entry := models.CheckLog{
		ProductID: product.ID,
		InStock:   outcome.InStock,
		Price:     loggedPrice,
	}
	if err := c.store.AppendCheckLog(ctx, entry); err != nil {
		logger.Error("failed to append check log", "error", err)
	}

	if outcome.Price > 0 && outcome.Price != product.Price {
		logger.Info("price changed", "old", product.Price, "new", outcome.Price)

		if err := c.store.UpdatePrice(ctx, product.ID, outcome.Price); err != nil {
			logger.Error("failed to persist new price", "error", err)
		}

		if text, ok := formatPriceAlert(product, outcome.Price, alerts); ok {
			c.notifyOwner(ctx, product.OwnerID, text, logger)
		}
	}

	if outcome.InStock && !wasInStock {
		logger.Info("product back in stock", "url", product.URL)
		c.notifyOwner(ctx, product.OwnerID, formatInStock(product), logger)
	}
}

func (c *Checker) notifyOwner(ctx context.Context, ownerID int64, text string, logger *slog.Logger) {
	if err := c.notifier.NotifyOwner(ctx, ownerID, text); err != nil {
		logger.Error("owner notification delivery failed", "error", err)
	}
}
