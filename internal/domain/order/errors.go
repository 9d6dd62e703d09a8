package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
)

// ErrNoItems rejects a submission whose item list is absent or empty.
var ErrNoItems = errors.New("items required")

// ProductNotFoundError indicates a submitted identifier resolved to nothing
// in any of the catalog's identifier spaces. One bad line item invalidates
// the whole submission.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// SubtotalMismatchError indicates the client-declared subtotal differs from
// the recomputed one by more than the accepted tolerance.
type SubtotalMismatchError struct {
	Declared decimal.Decimal
	Computed decimal.Decimal
}

func (e *SubtotalMismatchError) Error() string {
	return fmt.Sprintf("subtotal mismatch: declared %s, computed %s", e.Declared, e.Computed)
}

// PriceIntegrityError indicates the catalog record itself violates the price
// invariant. This is a server fault: the caller cannot correct it.
type PriceIntegrityError struct {
	ProductID string
}

func (e *PriceIntegrityError) Error() string {
	return fmt.Sprintf("catalog price for product %s is not numeric", e.ProductID)
}

func (e *PriceIntegrityError) Unwrap() error {
	return catalog.ErrInvalidPrice
}

// IsClientFault reports whether err is correctable by the caller. Everything
// else (data integrity, persistence) is a server fault.
func IsClientFault(err error) bool {
	var (
		pnf *ProductNotFoundError
		smm *SubtotalMismatchError
	)
	return errors.Is(err, ErrNoItems) || errors.As(err, &pnf) || errors.As(err, &smm)
}
