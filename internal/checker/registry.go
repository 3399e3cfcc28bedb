package checker

import (
	"log/slog"

	"stockwatch/internal/models"
)

// PriceAlertPolicy decides which price movements the owner hears about.
type PriceAlertPolicy int

const (
	// PriceAlertsAllChanges notifies on every price movement.
	PriceAlertsAllChanges PriceAlertPolicy = iota
	// PriceAlertsDropsOnly notifies only when the price goes down.
	PriceAlertsDropsOnly
)

// Entry pairs a store's check strategy with its notification policy.
type Entry struct {
	Strategy    Strategy
	PriceAlerts PriceAlertPolicy
}

// Registry maps stores to their check strategies. Populated once at startup,
// read-only afterwards.
type Registry struct {
	entries map[models.Store]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[models.Store]Entry)}
}

func (r *Registry) Register(store models.Store, entry Entry) {
	r.entries[store] = entry
}

func (r *Registry) Lookup(store models.Store) (Entry, bool) {
	entry, ok := r.entries[store]
	return entry, ok
}

// Stores lists the registered store keys.
func (r *Registry) Stores() []models.Store {
	stores := make([]models.Store, 0, len(r.entries))
	for store := range r.entries {
		stores = append(stores, store)
	}
	return stores
}

// DefaultRegistry wires up the supported stores. Zara alerts on every price
// movement, Mango only on drops.
func DefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry()
	r.Register(models.StoreZara, Entry{
		Strategy:    NewZaraStrategy(logger),
		PriceAlerts: PriceAlertsAllChanges,
	})
	r.Register(models.StoreMango, Entry{
		Strategy:    NewMangoStrategy(logger),
		PriceAlerts: PriceAlertsDropsOnly,
	})
	return r
}
