// Package handler implements the public REST API of the shop backend. Paths
// and response shapes mirror the API the shopping frontend consumes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ishop-io/ishop-backend/internal/domain/cart"
	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
	"github.com/ishop-io/ishop-backend/internal/domain/customer"
	"github.com/ishop-io/ishop-backend/internal/domain/order"
)

// Handler serves the shop REST API, delegating to the domain repositories
// and the order service.
type Handler struct {
	products   catalog.Repository
	categories catalog.CategoryRepository
	customers  customer.Repository
	carts      cart.Repository
	orders     *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(
	products catalog.Repository,
	categories catalog.CategoryRepository,
	customers customer.Repository,
	carts cart.Repository,
	orders *order.Service,
) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		customers:  customers,
		carts:      carts,
		orders:     orders,
	}
}

// Routes mounts every API endpoint on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/getproducts", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{category}", h.ListProductsByCategory)
	r.Get("/getcustomers", h.ListCustomers)
	r.Post("/customerregister", h.RegisterCustomer)
	r.Post("/createorder", h.CreateOrder)
	r.Post("/addtocart", h.AddToCart)
	r.Get("/getcart/{userId}", h.GetCart)
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

// writeError writes the `{"error": ...}` shape used by the CRUD endpoints.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]string{"error": message})
}

// writeFault writes the `{"success": false, "message": ...}` shape used by
// the order and cart endpoints. Client and server faults share this payload;
// only the status code distinguishes them.
func writeFault(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, map[string]any{
		"success": false,
		"message": message,
	})
}
