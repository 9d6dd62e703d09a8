package catalog

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInvalidPrice is returned when a stored product document carries a price
// that cannot be interpreted as a number. This signals a catalog data fault,
// not a bad request.
var ErrInvalidPrice = errors.New("product price is not numeric")

// ErrNoRefs is returned by FindByRefs when called with no references. A
// batched lookup with empty criteria would otherwise degenerate into an
// unbounded catalog read.
var ErrNoRefs = errors.New("no product references to look up")

// Product is a catalog record as stored. A product may be addressed by up to
// three identifier spaces: its primary key, a legacy numeric id, and a legacy
// string id, the latter two retained for compatibility with older catalog
// data.
type Product struct {
	ID         string // primary key, 24-character hex
	LegacyID   *int64
	LegacyCode string
	Title      string
	Name       string
	Category   string
	Price      Price
}

// CanonicalID returns the identifier recorded on order line items: the
// primary key when present, otherwise the legacy numeric id, otherwise the
// legacy string id.
func (p Product) CanonicalID() string {
	if p.ID != "" {
		return p.ID
	}
	if p.LegacyID != nil {
		return strconv.FormatInt(*p.LegacyID, 10)
	}
	return p.LegacyCode
}

// DisplayTitle returns the catalog's name for the product. Older documents
// use "name" where newer ones use "title".
func (p Product) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// Repository defines read operations over the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)

	// FindByRefs returns every product matching any of the given references
	// in a single batched query. An empty refs slice is rejected with
	// ErrNoRefs rather than falling back to an unbounded full-catalog read;
	// use List for that.
	FindByRefs(ctx context.Context, refs []Ref) ([]Product, error)

	// Resolve looks up a single product by a raw identifier, trying the
	// legacy numeric id first, then the primary key, then the legacy string
	// id and title. Returns ErrNotFound when nothing matches.
	Resolve(ctx context.Context, raw string) (*Product, error)
}

// Category is a catalog grouping.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRepository defines read operations over product categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
}

// priceState tracks how the stored price field decoded.
type priceState uint8

const (
	priceAbsent priceState = iota
	priceValid
	priceInvalid
)

// Price is the price field of a stored product document. Legacy dumps carry
// prices as JSON numbers, numeric strings, or not at all, so the value is
// validated when resolved rather than at decode time.
type Price struct {
	state  priceState
	amount decimal.Decimal
}

// PriceFrom wraps a known-good decimal amount.
func PriceFrom(d decimal.Decimal) Price {
	return Price{state: priceValid, amount: d}
}

// InvalidPrice marks a price that could not be parsed from the document.
func InvalidPrice() Price {
	return Price{state: priceInvalid}
}

// ParsePrice interprets a textual price from a legacy document.
func ParsePrice(raw string) Price {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return InvalidPrice()
	}
	return PriceFrom(d)
}

// Amount resolves the price. An absent price resolves to zero; a price that
// could not be parsed returns ErrInvalidPrice.
func (p Price) Amount() (decimal.Decimal, error) {
	switch p.state {
	case priceValid:
		return p.amount, nil
	case priceAbsent:
		return decimal.Zero, nil
	default:
		return decimal.Zero, ErrInvalidPrice
	}
}

// IsSet reports whether the document carried any price value at all.
func (p Price) IsSet() bool {
	return p.state != priceAbsent
}
