package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/server/middleware"
	"github.com/solemate/solemate/internal/store"
)

// OrderHandler serves order placement and tracking for clients, plus the
// admin order views.
type OrderHandler struct {
	store *store.Store
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(st *store.Store) *OrderHandler {
	return &OrderHandler{store: st}
}

// Create places an order from the caller's cart. The cart is consumed
// atomically; an empty cart is a 400.
// POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	order, err := h.store.CreateOrderFromCart(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create order: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListMine returns the caller's orders, newest first.
// GET /orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	orders, err := h.store.ListOrdersByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetMine returns one of the caller's own orders.
// GET /orders/{orderID}
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	id, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel cancels one of the caller's own orders while it is still pending.
// DELETE /orders/{orderID}
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	id, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order: "+err.Error())
		return
	}
	if order.Status != model.OrderPending {
		writeError(w, http.StatusBadRequest, "Order can no longer be cancelled")
		return
	}

	if err := h.store.UpdateOrderStatus(r.Context(), id, model.OrderCancelled); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cancel order: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Order %d cancelled", id),
	})
}

// ListAll returns every order in the system. Admin only.
// GET /orders/all
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListAllOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetAny returns any order by ID. Admin only.
// GET /orders/all/{orderID}
func (h *OrderHandler) GetAny(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id, 0)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type orderStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus sets an order's status. Admin only.
// PUT /orders/{orderID}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req orderStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown order status: "+string(req.Status))
		return
	}

	if err := h.store.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update order: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Order %d status updated to %s", id, req.Status),
	})
}
