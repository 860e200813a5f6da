package httpapi

import (
	"context"
	"log"
	"net/http"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type ProductsHandler struct {
	catalog ProductLister
}

func NewProductsHandler(catalog ProductLister) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		log.Printf("catalog list failed: %v", err)
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to load products")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}
