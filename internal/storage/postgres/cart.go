package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ishop-io/ishop-backend/internal/domain/cart"
)

const (
	addCartItemSQL = `INSERT INTO cart_items (user_id, product_id, qty, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty`

	listCartItemsSQL = `SELECT user_id, product_id, qty, added_at
		FROM cart_items WHERE user_id = $1 ORDER BY added_at`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// AddItem upserts a cart row; an existing (user, product) row has its
// quantity incremented instead of replaced.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, qty int64) error {
	_, err := r.pool.Exec(ctx, addCartItemSQL, userID, productID, qty, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "adding cart item %q for user %q", productID, userID)
	}
	return nil
}

// ListByUser returns the user's cart rows in the order they were added.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, listCartItemsSQL, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing cart for user %q", userID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Item, error) {
		var it cart.Item
		err := row.Scan(&it.UserID, &it.ProductID, &it.Qty, &it.AddedAt)
		return it, err
	})
}
