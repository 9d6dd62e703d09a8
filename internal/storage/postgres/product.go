package postgres

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
)

const (
	productColumns = `id, legacy_id, COALESCE(legacy_code, ''), category, doc`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY id`

	listProductsByCategorySQL = `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY id`

	findProductsByRefsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE id = ANY($1::text[]) OR legacy_id = ANY($2::bigint[]) OR legacy_code = ANY($3::text[])`

	getProductByLegacyIDSQL = `SELECT ` + productColumns + ` FROM products WHERE legacy_id = $1`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductByLegacyCodeSQL = `SELECT ` + productColumns + ` FROM products
		WHERE legacy_code = $1 OR doc->>'title' = $1 LIMIT 1`

	upsertProductSQL = `INSERT INTO products (id, legacy_id, legacy_code, category, doc)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			legacy_id = EXCLUDED.legacy_id,
			legacy_code = EXCLUDED.legacy_code,
			category = EXCLUDED.category,
			doc = EXCLUDED.doc`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
// Product records are stored as JSONB documents with their identifiers
// extracted into indexed columns.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the full catalog ordered by primary key.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListByCategory returns products in the given category.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsByCategorySQL, category)
	if err != nil {
		return nil, errors.Wrapf(err, "listing products in %q", category)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// FindByRefs resolves the classified identifier sets with a single
// disjunctive query.
func (r *ProductRepository) FindByRefs(ctx context.Context, refs []catalog.Ref) ([]catalog.Product, error) {
	primary, numeric, legacy := catalog.Partition(refs)
	if len(primary) == 0 && len(numeric) == 0 && len(legacy) == 0 {
		return nil, catalog.ErrNoRefs
	}

	rows, err := r.pool.Query(ctx, findProductsByRefsSQL, primary, numeric, legacy)
	if err != nil {
		return nil, errors.Wrap(err, "finding products by refs")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Resolve looks up a single product by a raw identifier: legacy numeric id
// first, then primary key, then legacy string id or title.
func (r *ProductRepository) Resolve(ctx context.Context, raw string) (*catalog.Product, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		p, err := r.getOne(ctx, getProductByLegacyIDSQL, n)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
	}

	if ref := catalog.ClassifyID(raw); ref.Kind == catalog.RefPrimary {
		p, err := r.getOne(ctx, getProductByIDSQL, raw)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, err
		}
	}

	return r.getOne(ctx, getProductByLegacyCodeSQL, raw)
}

// Upsert inserts or replaces a catalog record. It is used by the seed and
// ingest tools, not by the request path.
func (r *ProductRepository) Upsert(ctx context.Context, p catalog.Product) error {
	doc := encodeProductDoc(p)
	_, err := r.pool.Exec(ctx, upsertProductSQL, p.ID, p.LegacyID, p.LegacyCode, p.Category, doc)
	return errors.Wrapf(err, "upserting product %q", p.ID)
}

func (r *ProductRepository) getOne(ctx context.Context, sql string, arg any) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, errors.Wrapf(err, "getting product %v", arg)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting product %v", arg)
	}
	return &p, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p   catalog.Product
		doc []byte
	)
	if err := row.Scan(&p.ID, &p.LegacyID, &p.LegacyCode, &p.Category, &doc); err != nil {
		return p, err
	}
	if err := decodeProductDoc(doc, &p); err != nil {
		return p, errors.Wrapf(err, "decoding product doc %q", p.ID)
	}
	return p, nil
}

// encodeProductDoc builds the JSONB body for a product row. Only prices
// that carry a valid amount are written; unset prices stay absent from the
// document.
func encodeProductDoc(p catalog.Product) []byte {
	var e jx.Encoder
	e.ObjStart()
	if p.Title != "" {
		e.FieldStart("title")
		e.Str(p.Title)
	}
	if p.Name != "" {
		e.FieldStart("name")
		e.Str(p.Name)
	}
	if amt, err := p.Price.Amount(); err == nil && p.Price.IsSet() {
		e.FieldStart("price")
		e.Num(jx.Num(amt.String()))
	}
	e.ObjEnd()
	return e.Bytes()
}

// decodeProductDoc fills title, name and price from the stored JSONB body.
// Legacy documents carry prices as numbers, numeric strings, or not at all;
// anything else is preserved as an invalid price so the order path can
// surface it as a data fault instead of silently pricing the item at zero.
func decodeProductDoc(data []byte, p *catalog.Product) error {
	d := jx.DecodeBytes(data)
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "title":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "title")
			}
			p.Title = s
		case "name":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "name")
			}
			p.Name = s
		case "price":
			switch d.Next() {
			case jx.Number:
				n, err := d.Num()
				if err != nil {
					return errors.Wrap(err, "price")
				}
				dec, err := decimal.NewFromString(n.String())
				if err != nil {
					p.Price = catalog.InvalidPrice()
					return nil
				}
				p.Price = catalog.PriceFrom(dec)
			case jx.String:
				s, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "price")
				}
				p.Price = catalog.ParsePrice(s)
			case jx.Null:
				return d.Null()
			default:
				p.Price = catalog.InvalidPrice()
				return d.Skip()
			}
		default:
			return d.Skip()
		}
		return nil
	})
}
