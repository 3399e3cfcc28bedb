package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/models"
)

type fakeStore struct {
	products []models.Product
	logs     map[int64][]models.CheckLog
	listErr  error
}

func (f *fakeStore) ListActive(ctx context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeStore) RecentCheckLogs(ctx context.Context, productID int64, limit int) ([]models.CheckLog, error) {
	logs := f.logs[productID]
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

type fakeOutboxStats struct {
	pending int64
	dead    int64
	err     error
}

func (f *fakeOutboxStats) GetPendingCount(ctx context.Context) (int64, error) {
	return f.pending, f.err
}

func (f *fakeOutboxStats) GetDeadLetterCount(ctx context.Context) (int64, error) {
	return f.dead, f.err
}

func newTestRouter(store *fakeStore, outbox OutboxStats) http.Handler {
	return NewRouter(NewHandler(store, outbox, slog.Default()))
}

func TestHealth(t *testing.T) {
	t.Run("healthy with outbox counts", func(t *testing.T) {
		router := newTestRouter(&fakeStore{}, &fakeOutboxStats{pending: 3, dead: 1})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(3), body["outbox_pending"])
		assert.Equal(t, float64(1), body["outbox_dead_letter"])
	})

	t.Run("degraded when outbox unreadable", func(t *testing.T) {
		router := newTestRouter(&fakeStore{}, &fakeOutboxStats{err: errors.New("connection refused")})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body["status"])
	})
}

func TestListProducts(t *testing.T) {
	t.Run("returns products", func(t *testing.T) {
		store := &fakeStore{products: []models.Product{
			{ID: 1, OwnerID: 42, Store: models.StoreZara, URL: "https://example.com/a", Active: true, Price: 45.99},
		}}
		router := newTestRouter(store, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var products []models.Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		require.Len(t, products, 1)
		assert.Equal(t, int64(1), products[0].ID)
	})

	t.Run("empty list is an array, not null", func(t *testing.T) {
		router := newTestRouter(&fakeStore{}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		router := newTestRouter(&fakeStore{listErr: errors.New("boom")}, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestProductLogs(t *testing.T) {
	store := &fakeStore{logs: map[int64][]models.CheckLog{
		1: {
			{ID: 10, ProductID: 1, InStock: true, Price: 45.99},
			{ID: 9, ProductID: 1, InStock: false},
		},
	}}
	router := newTestRouter(store, nil)

	t.Run("returns recent logs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/1/logs", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var logs []models.CheckLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
		assert.Len(t, logs, 2)
	})

	t.Run("limit is honored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/1/logs?limit=1", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var logs []models.CheckLog
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
		assert.Len(t, logs, 1)
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/abc/logs", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid limit rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/1/logs?limit=0", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product yields empty array", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/99/logs", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}
