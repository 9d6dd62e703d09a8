// Package cart holds the shopping cart row model and its store. Cart
// mutation is a plain upsert with no validation beyond requiring the keys.
package cart

import (
	"context"
	"time"
)

// Item is one shopping cart row, keyed by (user, product).
type Item struct {
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Qty       int64     `json:"qty"`
	AddedAt   time.Time `json:"addedAt"`
}

// Repository defines persistence operations for cart rows.
type Repository interface {
	// AddItem upserts: an existing (user, product) row has its quantity
	// incremented by qty, otherwise a new row is inserted.
	AddItem(ctx context.Context, userID, productID string, qty int64) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
}
