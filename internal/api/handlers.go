package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockwatch/internal/models"
)

// Store is the read surface the API exposes.
type Store interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	RecentCheckLogs(ctx context.Context, productID int64, limit int) ([]models.CheckLog, error)
}

// OutboxStats reports relay backlog for the health endpoint.
type OutboxStats interface {
	GetPendingCount(ctx context.Context) (int64, error)
	GetDeadLetterCount(ctx context.Context) (int64, error)
}

type Handler struct {
	store  Store
	outbox OutboxStats
	logger *slog.Logger
}

func NewHandler(store Store, outbox OutboxStats, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		outbox: outbox,
		logger: logger.With("component", "api"),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
	}

	if h.outbox != nil {
		pending, err := h.outbox.GetPendingCount(r.Context())
		if err != nil {
			h.logger.Error("failed to read outbox pending count", "error", err)
			resp["status"] = "degraded"
		} else {
			resp["outbox_pending"] = pending
		}

		dead, err := h.outbox.GetDeadLetterCount(r.Context())
		if err != nil {
			h.logger.Error("failed to read dead letter count", "error", err)
			resp["status"] = "degraded"
		} else {
			resp["outbox_dead_letter"] = dead
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}
	h.respondJSON(w, http.StatusOK, products)
}

func (h *Handler) ProductLogs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			h.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.store.RecentCheckLogs(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("failed to load check logs", "product_id", id, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to load check logs")
		return
	}

	if logs == nil {
		logs = []models.CheckLog{}
	}
	h.respondJSON(w, http.StatusOK, logs)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
