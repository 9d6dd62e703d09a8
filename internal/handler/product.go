package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
)

// productResponse reproduces the document shape the frontend expects,
// including the legacy identifier fields.
type productResponse struct {
	ID         string   `json:"_id,omitempty"`
	LegacyID   *int64   `json:"id,omitempty"`
	LegacyCode string   `json:"product_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	Name       string   `json:"name,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Category   string   `json:"category,omitempty"`
}

func toProductResponse(p catalog.Product) productResponse {
	resp := productResponse{
		ID:         p.ID,
		LegacyID:   p.LegacyID,
		LegacyCode: p.LegacyCode,
		Title:      p.Title,
		Name:       p.Name,
		Category:   p.Category,
	}
	// A price that failed to parse is omitted rather than reported as zero;
	// the order path is where it surfaces as a fault.
	if amount, err := p.Price.Amount(); err == nil && p.Price.IsSet() {
		f, _ := amount.Float64()
		resp.Price = &f
	}
	return resp
}

func toProductResponses(products []catalog.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// ListProducts handles GET /getproducts.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponses(products))
}

// GetProduct handles GET /products/{id}. The identifier may belong to any of
// the three identifier spaces.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	p, err := h.products.Resolve(r.Context(), raw)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.String("id", raw), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponse(*p))
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list categories", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

// ListProductsByCategory handles GET /categories/{category}.
func (h *Handler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.products.ListByCategory(r.Context(), category)
	if err != nil {
		zctx.From(r.Context()).Error("list products by category",
			zap.String("category", category), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, r, http.StatusOK, toProductResponses(products))
}
