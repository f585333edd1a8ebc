package lineitem

import (
	"github.com/shopspring/decimal"

	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
)

// LineItem is a quantity times unit-price value with a stable identity
// key, ordered discount and tax modifiers, and an attachable meta
// collection for provenance. It is mutated in place by the proration
// stage (price) and the description stage (text); it is never
// persisted by this module.
type LineItem struct {
	unitPrice   decimal.Decimal
	quantity    int
	key         string
	description string
	discounts   []*Discount
	taxes       []*Tax
	meta        *meta.Collection
}

// New creates a line item. The key is an opaque identity used to match
// items across recomputes and may be empty. A negative quantity is a
// construction error.
func New(unitPrice decimal.Decimal, quantity int, key string) (*LineItem, error) {
	if quantity < 0 {
		return nil, ierr.NewError("invalid line item quantity").
			WithHintf("quantity must be non negative, got %d", quantity).
			Mark(ierr.ErrValidation)
	}
	return &LineItem{
		unitPrice: unitPrice,
		quantity:  quantity,
		key:       key,
		meta:      meta.NewCollection(),
	}, nil
}

// Price returns the unit price.
func (i *LineItem) Price() decimal.Decimal {
	return i.unitPrice
}

// SetPrice replaces the unit price. Quantity, key, modifiers and meta
// are untouched.
func (i *LineItem) SetPrice(p decimal.Decimal) {
	i.unitPrice = p
}

func (i *LineItem) Quantity() int {
	return i.quantity
}

func (i *LineItem) Key() string {
	return i.key
}

func (i *LineItem) Description() string {
	return i.description
}

func (i *LineItem) SetDescription(d string) {
	i.description = d
}

// ExtendedPrice is unit price times quantity, before discounts and
// taxes.
func (i *LineItem) ExtendedPrice() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// AttachDiscount appends a discount. Attachment order is application
// order.
func (i *LineItem) AttachDiscount(d *Discount) {
	if d == nil {
		return
	}
	i.discounts = append(i.discounts, d)
}

func (i *LineItem) Discounts() []*Discount {
	return i.discounts
}

// AttachTax appends a tax. Attachment order is application order.
func (i *LineItem) AttachTax(t *Tax) {
	if t == nil {
		return
	}
	i.taxes = append(i.taxes, t)
}

func (i *LineItem) Taxes() []*Tax {
	return i.taxes
}

// Meta exposes the item's provenance collection.
func (i *LineItem) Meta() *meta.Collection {
	return i.meta
}
