package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ishop-io/ishop-backend/internal/domain/cart"
	"github.com/ishop-io/ishop-backend/internal/domain/order"
)

// addToCartRequest accepts the same loose identifier types as order items.
type addToCartRequest struct {
	UserID    order.FlexID   `json:"userId"`
	ProductID order.FlexID   `json:"productId"`
	Qty       order.Quantity `json:"qty"`
}

// AddToCart handles POST /addtocart: an upsert that increments the quantity
// of an existing (user, product) row.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zctx.From(ctx).Warn("malformed cart payload", zap.Error(err))
		writeFault(w, r, http.StatusBadRequest, "userId and productId required")
		return
	}

	if req.UserID == "" || req.ProductID == "" {
		writeFault(w, r, http.StatusBadRequest, "userId and productId required")
		return
	}

	if err := h.carts.AddItem(ctx, string(req.UserID), string(req.ProductID), req.Qty.OrDefault()); err != nil {
		zctx.From(ctx).Error("add to cart", zap.Error(err))
		writeFault(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cart updated",
	})
}

// GetCart handles GET /getcart/{userId}.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	items, err := h.carts.ListByUser(r.Context(), userID)
	if err != nil {
		zctx.From(r.Context()).Error("get cart", zap.String("user_id", userID), zap.Error(err))
		writeFault(w, r, http.StatusInternalServerError, "Server error")
		return
	}
	if items == nil {
		items = []cart.Item{}
	}
	writeJSON(w, r, http.StatusOK, items)
}
