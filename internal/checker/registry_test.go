package checker

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/models"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(slog.Default())

	zara, ok := r.Lookup(models.StoreZara)
	require.True(t, ok)
	assert.IsType(t, &ZaraStrategy{}, zara.Strategy)
	assert.Equal(t, PriceAlertsAllChanges, zara.PriceAlerts)

	mango, ok := r.Lookup(models.StoreMango)
	require.True(t, ok)
	assert.IsType(t, &MangoStrategy{}, mango.Strategy)
	assert.Equal(t, PriceAlertsDropsOnly, mango.PriceAlerts)

	_, ok = r.Lookup(models.Store("hm"))
	assert.False(t, ok)

	assert.ElementsMatch(t, []models.Store{models.StoreZara, models.StoreMango}, r.Stores())
}
