package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/store"
)

// ProductHandler serves the catalog: public reads, admin writes.
type ProductHandler struct {
	store *store.Store
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(st *store.Store) *ProductHandler {
	return &ProductHandler{store: st}
}

// List returns available products with skip/limit paging.
// GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := clampInt(queryInt(r, "limit", 100), 1, 500)

	products, err := h.store.ListAvailableProducts(r.Context(), skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns one product. Unavailable products are hidden from this
// endpoint, same as from the listing.
// GET /products/{productID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get product: "+err.Error())
		return
	}
	if !product.Available {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// Create adds a product or service to the catalog. Admin only.
// POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Product name is required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if err := h.store.CreateProduct(r.Context(), product); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update applies a partial update to a product. Only the fields present in
// the request body change. Admin only.
// PUT /products/{productID}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var patch model.ProductPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if patch.Price != nil && *patch.Price < 0 {
		writeError(w, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get product: "+err.Error())
		return
	}

	patch.Apply(product)

	if err := h.store.UpdateProduct(r.Context(), product); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update product: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete removes a product from the catalog. Admin only.
// DELETE /products/{productID}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete product: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message: fmt.Sprintf("Product %d deleted", id),
	})
}
