package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/solemate/solemate/internal/model"
)

// ListCart returns the user's cart joined with product name and price.
func (s *Store) ListCart(ctx context.Context, userID int64) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	q := s.db.Rebind(`SELECT
			ci.id, ci.product_id, p.name AS product_name,
			p.price AS product_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id`)
	if err := s.db.SelectContext(ctx, &lines, q, userID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

// AddToCart adds quantity of a product to the user's cart. If the product is
// already in the cart the existing line's quantity is incremented. Returns
// the resulting cart item.
func (s *Store) AddToCart(ctx context.Context, userID, productID int64, quantity int) (*model.CartItem, error) {
	var existing model.CartItem
	q := s.db.Rebind(`SELECT * FROM cart_items WHERE user_id = ? AND product_id = ?`)
	err := s.db.GetContext(ctx, &existing, q, userID, productID)
	switch {
	case err == nil:
		existing.Quantity += quantity
		q = s.db.Rebind(`UPDATE cart_items SET quantity = ? WHERE id = ?`)
		if _, err := s.db.ExecContext(ctx, q, existing.Quantity, existing.ID); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		return &existing, nil

	case errors.Is(err, sql.ErrNoRows):
		item := model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		q = s.db.Rebind(`INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES (?, ?, ?) RETURNING id`)
		if err := s.db.QueryRowxContext(ctx, q, userID, productID, quantity).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("insert cart item: %w", err)
		}
		return &item, nil

	default:
		return nil, fmt.Errorf("get cart item: %w", err)
	}
}

// RemoveFromCart deletes one cart line. The line must belong to the given
// user; lines owned by other users are invisible, so this returns ErrNotFound
// for them.
func (s *Store) RemoveFromCart(ctx context.Context, userID, itemID int64) error {
	q := s.db.Rebind(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`)
	res, err := s.db.ExecContext(ctx, q, itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart removes every line in the user's cart.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	q := s.db.Rebind(`DELETE FROM cart_items WHERE user_id = ?`)
	if _, err := s.db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
