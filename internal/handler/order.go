package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
	"github.com/ishop-io/ishop-backend/internal/domain/order"
)

// CreateOrder handles POST /createorder: the only endpoint with real logic.
// The submitted cart is validated against the catalog, totals are recomputed
// server-side, and the order is persisted exactly once.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req order.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		zctx.From(ctx).Warn("malformed order payload", zap.Error(err))
		writeFault(w, r, http.StatusBadRequest, "Invalid payload: items required")
		return
	}

	o, err := h.orders.Create(ctx, req)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	zctx.From(ctx).Info("order created",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.Total.String()),
	)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"orderId": o.ID,
		"message": "Order created",
	})
}

// writeOrderError maps the order error taxonomy onto the wire: validation
// failures are client faults (400), price integrity and persistence failures
// are server faults (500). Every branch logs enough context to diagnose.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	lg := zctx.From(r.Context())

	var (
		pnf *order.ProductNotFoundError
		smm *order.SubtotalMismatchError
	)
	switch {
	case errors.Is(err, order.ErrNoItems):
		writeFault(w, r, http.StatusBadRequest, "Invalid payload: items required")

	case errors.As(err, &pnf):
		lg.Warn("order rejected: unknown product", zap.String("product_id", pnf.ProductID))
		writeFault(w, r, http.StatusBadRequest, "Product not found: "+pnf.ProductID)

	case errors.As(err, &smm):
		lg.Warn("order rejected: subtotal mismatch",
			zap.String("declared", smm.Declared.String()),
			zap.String("computed", smm.Computed.String()),
		)
		writeFault(w, r, http.StatusBadRequest, "Subtotal mismatch")

	case errors.Is(err, catalog.ErrInvalidPrice):
		lg.Error("catalog price fault", zap.Error(err))
		writeFault(w, r, http.StatusInternalServerError, "Server product price error")

	default:
		lg.Error("create order failed", zap.Error(err))
		writeFault(w, r, http.StatusInternalServerError, err.Error())
	}
}
