package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockwatch/internal/models"
)

// ErrProductNotFound is returned when a product id does not exist or is not
// owned by the requesting user.
var ErrProductNotFound = errors.New("product not found")

const productColumns = "id, owner_id, store, url, size, active, price"

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.OwnerID, &p.Store, &p.URL, &p.Size, &p.Active, &p.Price)
	return p, err
}

// InsertProduct stores a new tracked product and fills in its assigned id.
func (db *DB) InsertProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (owner_id, store, url, size, active, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := db.pool.QueryRow(ctx, query,
		p.OwnerID, p.Store, p.URL, p.Size, p.Active, p.Price,
	).Scan(&p.ID)

	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// ListActive returns the products eligible for the next batch.
func (db *DB) ListActive(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active ORDER BY id`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListByOwner returns all products tracked by one owner, paused included.
func (db *DB) ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY id`

	rows, err := db.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by owner: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// GetOwned fetches one product, scoped to its owner.
func (db *DB) GetOwned(ctx context.Context, id, ownerID int64) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND owner_id = $2`

	p, err := scanProduct(db.pool.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// SetActive pauses or resumes a product, scoped to its owner.
func (db *DB) SetActive(ctx context.Context, id, ownerID int64, active bool) error {
	query := `UPDATE products SET active = $3 WHERE id = $1 AND owner_id = $2`

	tag, err := db.pool.Exec(ctx, query, id, ownerID, active)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DeleteProduct removes a product, scoped to its owner. Check logs are kept.
func (db *DB) DeleteProduct(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM products WHERE id = $1 AND owner_id = $2`

	tag, err := db.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdatePrice replaces the last-observed price in place.
func (db *DB) UpdatePrice(ctx context.Context, id int64, price float64) error {
	query := `UPDATE products SET price = $2 WHERE id = $1`

	if _, err := db.pool.Exec(ctx, query, id, price); err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}

	return nil
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}
