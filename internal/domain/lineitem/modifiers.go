package lineitem

import (
	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Discount reduces a running total. Percent discounts carry a fraction
// (0.10 is ten percent) applied to the running total; amount discounts
// are absolute and clamp the total at zero.
type Discount struct {
	amount       decimal.Decimal
	discountType types.DiscountType
	description  string
	meta         *meta.Collection
}

// NewDiscount creates a discount modifier. Negative amounts are a
// construction error.
func NewDiscount(amount decimal.Decimal, discountType types.DiscountType) (*Discount, error) {
	if amount.IsNegative() {
		return nil, ierr.NewError("invalid discount amount").
			WithHintf("discount amount must be non negative, got %s", amount).
			Mark(ierr.ErrValidation)
	}
	if err := discountType.Validate(); err != nil {
		return nil, err
	}
	return &Discount{
		amount:       amount,
		discountType: discountType,
		meta:         meta.NewCollection(),
	}, nil
}

func (d *Discount) Amount() decimal.Decimal {
	return d.amount
}

func (d *Discount) Type() types.DiscountType {
	return d.discountType
}

func (d *Discount) Description() string {
	return d.description
}

func (d *Discount) SetDescription(s string) {
	d.description = s
}

func (d *Discount) Meta() *meta.Collection {
	return d.meta
}

// Apply returns the running total after this discount. Amount
// discounts never drive the total below zero.
func (d *Discount) Apply(total decimal.Decimal) decimal.Decimal {
	switch d.discountType {
	case types.DiscountTypeAmount:
		out := total.Sub(d.amount)
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	case types.DiscountTypePercent:
		return total.Sub(total.Mul(d.amount))
	default:
		return total
	}
}

// Tax applies a percentage rate to a running total in one of three
// modes; see types.TaxType. Subtract flips the sign, used for tax
// credits.
type Tax struct {
	rate        decimal.Decimal
	taxType     types.TaxType
	subtract    bool
	description string
	meta        *meta.Collection
}

// NewTax creates a tax modifier. Negative rates are a construction
// error; credits are expressed with subtract instead.
func NewTax(rate decimal.Decimal, taxType types.TaxType, subtract bool) (*Tax, error) {
	if rate.IsNegative() {
		return nil, ierr.NewError("invalid tax rate").
			WithHintf("tax rate must be non negative, got %s", rate).
			Mark(ierr.ErrValidation)
	}
	if err := taxType.Validate(); err != nil {
		return nil, err
	}
	return &Tax{
		rate:     rate,
		taxType:  taxType,
		subtract: subtract,
		meta:     meta.NewCollection(),
	}, nil
}

func (t *Tax) Rate() decimal.Decimal {
	return t.rate
}

func (t *Tax) Type() types.TaxType {
	return t.taxType
}

func (t *Tax) Subtract() bool {
	return t.subtract
}

func (t *Tax) Description() string {
	return t.description
}

func (t *Tax) SetDescription(s string) {
	t.description = s
}

func (t *Tax) Meta() *meta.Collection {
	return t.meta
}

var oneHundred = decimal.NewFromInt(100)

// Apply returns the running total after this tax together with the
// tax portion it reports. Inclusive modes report without changing the
// total; only exclusive taxes move it.
func (t *Tax) Apply(total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	var portion decimal.Decimal

	switch t.taxType {
	case types.TaxTypeExclusive:
		portion = total.Mul(t.rate).Div(oneHundred)
		if t.subtract {
			portion = portion.Neg()
		}
		return total.Add(portion), portion
	case types.TaxTypeInclusiveCalculated:
		divisor := decimal.NewFromInt(1).Add(t.rate.Div(oneHundred))
		portion = total.Sub(total.Div(divisor))
	case types.TaxTypeInclusive:
		portion = total.Mul(t.rate).Div(oneHundred)
	default:
		return total, decimal.Zero
	}

	if t.subtract {
		portion = portion.Neg()
	}
	return total, portion
}
