package model

// CartItem is one product line in a user's cart. A user has at most one line
// per product; adding the same product again bumps the quantity.
type CartItem struct {
	ID        int64 `json:"id" db:"id"`
	UserID    int64 `json:"user_id" db:"user_id"`
	ProductID int64 `json:"product_id" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}

// CartLine is a cart item joined with its product for display.
type CartLine struct {
	ID           int64   `json:"id" db:"id"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	ProductName  string  `json:"product_name" db:"product_name"`
	ProductPrice float64 `json:"product_price" db:"product_price"`
	Quantity     int     `json:"quantity" db:"quantity"`
}
