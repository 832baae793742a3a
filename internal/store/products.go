package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solemate/solemate/internal/model"
)

// CreateProduct inserts a new catalog entry. The ID, CreatedAt, and UpdatedAt
// fields on p are populated after a successful insert.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	q := s.db.Rebind(`INSERT INTO products
		(name, description, price, category, image_url, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.QueryRowxContext(ctx, q,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Available,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetProduct returns a product by ID regardless of availability.
func (s *Store) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	q := s.db.Rebind(`SELECT * FROM products WHERE id = ?`)
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ListAvailableProducts returns available catalog entries ordered by ID,
// with offset/limit paging.
func (s *Store) ListAvailableProducts(ctx context.Context, offset, limit int) ([]model.Product, error) {
	products := []model.Product{}
	q := s.db.Rebind(`SELECT * FROM products WHERE available = ? ORDER BY id LIMIT ? OFFSET ?`)
	if err := s.db.SelectContext(ctx, &products, q, true, limit, offset); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct persists all mutable fields of p. Callers apply a
// ProductPatch first, so only fields the client actually sent change.
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	p.UpdatedAt = time.Now().UTC()

	q := s.db.Rebind(`UPDATE products SET
		name = ?, description = ?, price = ?, category = ?, image_url = ?,
		available = ?, updated_at = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL,
		p.Available, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product from the catalog.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	q := s.db.Rebind(`DELETE FROM products WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
