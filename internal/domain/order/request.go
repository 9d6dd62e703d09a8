package order

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// FlexID accepts a JSON string or number and keeps its canonical string form.
// Checkout clients submit product ids in whichever type their catalog data
// had, so both must resolve to the same index key.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode id string")
		}
		*id = FlexID(s)
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return errors.Wrap(err, "decode id number")
		}
		*id = FlexID(strconv.FormatFloat(f, 'f', -1, 64))
	case jx.Null:
		*id = ""
	default:
		return errors.New("product id must be a string or number")
	}
	return nil
}

// Quantity accepts a JSON string or number.
type Quantity int64

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.Number:
		n, err := d.Int64()
		if err != nil {
			return errors.Wrap(err, "decode qty")
		}
		*q = Quantity(n)
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode qty string")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse qty")
		}
		*q = Quantity(n)
	case jx.Null:
		*q = 0
	default:
		return errors.New("qty must be a number")
	}
	return nil
}

// OrDefault returns the quantity, falling back to 1 when none was submitted.
// No upper bound is enforced and no stock check is performed.
func (q Quantity) OrDefault() int64 {
	if q == 0 {
		return 1
	}
	return int64(q)
}

// ItemRequest is one client-submitted cart line.
type ItemRequest struct {
	ProductID FlexID   `json:"productId"`
	Qty       Quantity `json:"qty"`
}

// CreateRequest is the raw cart submission for order creation. Everything in
// it is untrusted; subtotal, shipping, tax and total are optional
// client-declared figures.
type CreateRequest struct {
	UserID   FlexID              `json:"userId"`
	Items    []ItemRequest       `json:"items"`
	Subtotal decimal.NullDecimal `json:"subtotal"`
	Shipping decimal.NullDecimal `json:"shipping"`
	Tax      decimal.NullDecimal `json:"tax"`
	Total    decimal.NullDecimal `json:"total"`
}
