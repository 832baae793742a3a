package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/store"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	store *store.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(st *store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// List returns user accounts with skip/limit paging. Admin only.
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := clampInt(queryInt(r, "limit", 100), 1, 500)

	users, err := h.store.ListUsers(r.Context(), skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns one user account by ID. Admin only.
// GET /users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get user: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Deactivate disables a user account. Tokens already issued for the account
// stop working on their next request. Admin only.
// PUT /users/{userID}/deactivate
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.store.DeactivateUser(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to deactivate user: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("User %d deactivated", id),
	})
}
