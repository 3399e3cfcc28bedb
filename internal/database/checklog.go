package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockwatch/internal/models"
)

// checkCompletedPayload is what external consumers see on the Redis stream
// for every recorded check attempt.
type checkCompletedPayload struct {
	ProductID int64   `json:"product_id"`
	InStock   bool    `json:"in_stock"`
	Price     float64 `json:"price"`
	Error     string  `json:"error,omitempty"`
}

// AppendCheckLog records one check attempt and, in the same transaction,
// queues a CHECK_COMPLETED outbox event for the relay to publish.
func (db *DB) AppendCheckLog(ctx context.Context, entry models.CheckLog) error {
	payload, err := json.Marshal(checkCompletedPayload{
		ProductID: entry.ProductID,
		InStock:   entry.InStock,
		Price:     entry.Price,
		Error:     entry.Error,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal check payload: %w", err)
	}

	return db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO check_logs (product_id, in_stock, price, error)
			VALUES ($1, $2, $3, $4)`

		if _, err := tx.Exec(ctx, query,
			entry.ProductID, entry.InStock, entry.Price, entry.Error,
		); err != nil {
			return fmt.Errorf("failed to insert check log: %w", err)
		}

		event := &OutboxEvent{
			ProductID: entry.ProductID,
			EventType: EventTypeCheckCompleted,
			Payload:   payload,
		}
		return db.outboxRepo().InsertWithTx(ctx, tx, event)
	})
}

// LastResult returns the in-stock state of the most recent check-log row
// for a product. A product that was never checked reports false.
func (db *DB) LastResult(ctx context.Context, productID int64) (bool, error) {
	query := `
		SELECT in_stock FROM check_logs
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT 1`

	var inStock bool
	err := db.pool.QueryRow(ctx, query, productID).Scan(&inStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get last check result: %w", err)
	}

	return inStock, nil
}

// RecentCheckLogs returns the newest check-log rows for a product.
func (db *DB) RecentCheckLogs(ctx context.Context, productID int64, limit int) ([]models.CheckLog, error) {
	query := `
		SELECT id, product_id, checked_at, in_stock, price, error
		FROM check_logs
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query check logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CheckLog
	for rows.Next() {
		var l models.CheckLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.CheckedAt, &l.InStock, &l.Price, &l.Error); err != nil {
			return nil, fmt.Errorf("failed to scan check log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, nil
}
