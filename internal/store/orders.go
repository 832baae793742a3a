package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/solemate/solemate/internal/model"
)

// ErrEmptyCart is returned by CreateOrderFromCart when the user's cart holds
// no items.
var ErrEmptyCart = errors.New("cart is empty")

// CreateOrderFromCart places an order from the user's current cart in a
// single transaction: the cart is read, an order row plus one order_items row
// per cart line are inserted with prices captured at order time, and the cart
// is cleared. Returns ErrEmptyCart if there is nothing to order.
func (s *Store) CreateOrderFromCart(ctx context.Context, userID int64) (*model.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback()

	lines := []model.CartLine{}
	q := tx.Rebind(`SELECT
			ci.id, ci.product_id, p.name AS product_name,
			p.price AS product_price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id`)
	if err := tx.SelectContext(ctx, &lines, q, userID); err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := model.Order{
		UserID:    userID,
		OrderDate: time.Now().UTC(),
		Status:    model.OrderPending,
	}
	for _, line := range lines {
		order.TotalPrice += float64(line.Quantity) * line.ProductPrice
	}

	q = tx.Rebind(`INSERT INTO orders (user_id, order_date, status, total_price)
		VALUES (?, ?, ?, ?) RETURNING id`)
	if err := tx.QueryRowxContext(ctx, q,
		order.UserID, order.OrderDate, order.Status, order.TotalPrice,
	).Scan(&order.ID); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	q = tx.Rebind(`INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?)`)
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, q,
			order.ID, line.ProductID, line.Quantity, line.ProductPrice,
		); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, model.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.ProductPrice,
		})
	}

	q = tx.Rebind(`DELETE FROM cart_items WHERE user_id = ?`)
	if _, err := tx.ExecContext(ctx, q, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order tx: %w", err)
	}
	return &order, nil
}

// GetOrder returns an order with its items. When userID is non-zero the order
// must belong to that user; pass 0 for the admin view.
func (s *Store) GetOrder(ctx context.Context, id, userID int64) (*model.Order, error) {
	var order model.Order
	var err error
	if userID != 0 {
		q := s.db.Rebind(`SELECT id, user_id, order_date, status, total_price
			FROM orders WHERE id = ? AND user_id = ?`)
		err = s.db.GetContext(ctx, &order, q, id, userID)
	} else {
		q := s.db.Rebind(`SELECT id, user_id, order_date, status, total_price
			FROM orders WHERE id = ?`)
		err = s.db.GetContext(ctx, &order, q, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := s.loadOrderItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser returns all orders placed by a user, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders := []model.Order{}
	q := s.db.Rebind(`SELECT id, user_id, order_date, status, total_price
		FROM orders WHERE user_id = ? ORDER BY id DESC`)
	if err := s.db.SelectContext(ctx, &orders, q, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		if err := s.loadOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// ListAllOrders returns every order in the system, newest first.
func (s *Store) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	q := `SELECT id, user_id, order_date, status, total_price FROM orders ORDER BY id DESC`
	if err := s.db.SelectContext(ctx, &orders, q); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	for i := range orders {
		if err := s.loadOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus sets the status of an order.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	q := s.db.Rebind(`UPDATE orders SET status = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) loadOrderItems(ctx context.Context, order *model.Order) error {
	items := []model.OrderItem{}
	q := s.db.Rebind(`SELECT
			oi.id, oi.order_id, oi.product_id, p.name AS product_name,
			oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id`)
	if err := s.db.SelectContext(ctx, &items, q, order.ID); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	order.Items = items
	return nil
}
