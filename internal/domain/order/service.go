package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
)

// subtotalTolerance is the maximum absolute difference accepted between a
// client-declared subtotal and the recomputed one. It is a fixed
// currency-unit threshold meant to absorb floating point rounding in
// checkout clients, not to permit real discrepancies.
var subtotalTolerance = decimal.RequireFromString("0.5")

// Service builds validated orders from untrusted cart submissions.
//
// The catalog is the source of truth for pricing and naming. Shipping, tax
// and a client-declared total are trusted as submitted: the checkout UI
// computes them and this API has no collaborator to recompute them against.
// That trust boundary is deliberate and documented, not an oversight.
type Service struct {
	catalog catalog.Repository
	orders  Repository
}

// NewService creates the order service with its two collaborators: a
// read-only catalog and an append-only order store.
func NewService(c catalog.Repository, orders Repository) *Service {
	return &Service{
		catalog: c,
		orders:  orders,
	}
}

// Create validates every submitted line item against the catalog, recomputes
// totals, and persists the order exactly once.
//
// Validation is strict fail-fast: the first unresolvable product rejects the
// whole submission, no partial order is ever persisted, and a rejected
// submission performs zero writes. The catalog fetch is a single batched
// disjunctive query over the classified identifier spaces; the reverse index
// built from it lives only for this call.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	refs := make([]catalog.Ref, len(req.Items))
	for i, item := range req.Items {
		refs[i] = catalog.ClassifyID(string(item.ProductID))
	}

	fetched, err := s.catalog.FindByRefs(ctx, refs)
	if err != nil {
		// Non-integer numeric ids (for example "5.5") classify as
		// legacy-numeric but can never match a stored integer id, so the
		// store drops them from the query criteria. When every submitted
		// id is dropped that way the store rejects the empty criteria;
		// the client fault is an unresolvable product, not a server one.
		if errors.Is(err, catalog.ErrNoRefs) {
			return nil, &ProductNotFoundError{ProductID: string(req.Items[0].ProductID)}
		}
		return nil, errors.Wrap(err, "fetch products")
	}
	idx := catalog.BuildIndex(fetched)

	items := make([]LineItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		key := string(item.ProductID)
		p, ok := idx.Lookup(key)
		if !ok {
			return nil, &ProductNotFoundError{ProductID: key}
		}

		unitPrice, err := p.Price.Amount()
		if err != nil {
			return nil, &PriceIntegrityError{ProductID: p.CanonicalID()}
		}

		qty := item.Qty.OrDefault()
		lineTotal := unitPrice.Mul(decimal.NewFromInt(qty))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, LineItem{
			ProductID: p.CanonicalID(),
			Title:     p.DisplayTitle(),
			UnitPrice: unitPrice,
			Qty:       qty,
			LineTotal: lineTotal,
		})
	}

	// Cross-check a declared subtotal against the recomputed one.
	if req.Subtotal.Valid {
		diff := req.Subtotal.Decimal.Sub(subtotal).Abs()
		if diff.GreaterThan(subtotalTolerance) {
			return nil, &SubtotalMismatchError{
				Declared: req.Subtotal.Decimal,
				Computed: subtotal,
			}
		}
	}

	shipping := decimal.Zero
	if req.Shipping.Valid {
		shipping = req.Shipping.Decimal
	}
	tax := decimal.Zero
	if req.Tax.Valid {
		tax = req.Tax.Decimal
	}

	total := subtotal.Add(shipping).Add(tax)
	if req.Total.Valid {
		total = req.Total.Decimal
	}

	o := &Order{
		ID:        uuid.New().String(),
		UserID:    string(req.UserID),
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     total,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}
