package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
)

// CatalogHandler serves the read-only product catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ListProducts returns the catalog, optionally filtered by category,
// case-insensitive name substring, or the featured flag.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("featured") == "true" {
		respondWithJSON(w, http.StatusOK, map[string]any{"products": h.catalog.Featured()})
		return
	}

	category := catalog.Category(q.Get("category"))
	if category != "" && !category.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	products := h.catalog.Filter(category, q.Get("q"))
	if products == nil {
		products = []catalog.Product{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok := h.catalog.Product(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}
