package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCreated is the status written on every new order. Orders are created
// exactly once by this service and never mutated afterwards.
const StatusCreated = "created"

// LineItem is one product-quantity pair after price resolution. Title and
// unit price always come from the catalog, never from the client.
type LineItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int64           `json:"qty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is a validated, fully priced order record.
type Order struct {
	ID        string
	UserID    string
	Items     []LineItem
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Status    string
	CreatedAt time.Time
}

// Repository defines persistence operations for orders. There is no update
// or delete path; a failed insert surfaces as-is with no compensation.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
