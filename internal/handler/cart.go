package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/server/middleware"
	"github.com/solemate/solemate/internal/store"
)

// CartHandler serves the authenticated user's shopping cart.
type CartHandler struct {
	store *store.Store
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(st *store.Store) *CartHandler {
	return &CartHandler{store: st}
}

// List returns the caller's cart with product names and prices.
// GET /cart
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	lines, err := h.store.ListCart(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cart: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

type addToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Add puts a product into the caller's cart, or bumps the quantity if the
// product is already there.
// POST /cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var req addToCartRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	product, err := h.store.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found or unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get product: "+err.Error())
		return
	}
	if !product.Available {
		writeError(w, http.StatusNotFound, "Product not found or unavailable")
		return
	}

	item, err := h.store.AddToCart(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add to cart: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.CartLine{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		Quantity:     item.Quantity,
	})
}

// Remove deletes one line from the caller's cart.
// DELETE /cart/{itemID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	id, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	if err := h.store.RemoveFromCart(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Cart item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to remove cart item: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Cart item %d removed", id),
	})
}

// Clear empties the caller's cart.
// DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	if err := h.store.ClearCart(r.Context(), user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear cart: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Cart cleared"})
}
