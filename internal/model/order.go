package model

import "time"

// OrderStatus tracks an order through its lifecycle. Clients may only cancel
// while the order is still pending; admins drive the rest of the transitions.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a placed order. TotalPrice and the per-item prices are captured at
// order time, so later catalog price changes do not rewrite history.
type Order struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	OrderDate  time.Time   `json:"order_date" db:"order_date"`
	Status     OrderStatus `json:"status" db:"status"`
	TotalPrice float64     `json:"total_price" db:"total_price"`
	Items      []OrderItem `json:"items"`
}

// OrderItem is one product line within an order.
type OrderItem struct {
	ID          int64   `json:"-" db:"id"`
	OrderID     int64   `json:"-" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Price       float64 `json:"price" db:"price"`
}
