package comparison

import (
	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// PriceFunc computes the net price of switching from an old billing
// state to a new one. Both extended prices and both merged meta views
// are available so policies can be credit-only, charge-only or plain
// deltas.
type PriceFunc func(oldExtended, newExtended decimal.Decimal, oldMeta, newMeta types.Metadata) decimal.Decimal

// DescribeFunc synthesizes the merged item's description. An empty
// return falls back to the new item's own description.
type DescribeFunc func(oldMeta, newMeta types.Metadata) string

// DefaultPriceFunc charges the difference between the new and the old
// extended price.
func DefaultPriceFunc(oldExtended, newExtended decimal.Decimal, _, _ types.Metadata) decimal.Decimal {
	return newExtended.Sub(oldExtended)
}

// Comparator merges an old and a new state of the same billable thing
// into a single net-price item, used for upgrade/downgrade and
// renewal-vs-now comparisons.
type Comparator struct {
	price    PriceFunc
	describe DescribeFunc
}

func NewComparator(price PriceFunc, describe DescribeFunc) *Comparator {
	if price == nil {
		price = DefaultPriceFunc
	}
	return &Comparator{price: price, describe: describe}
}

// Merge produces the net item. The result has quantity one, carries
// the new item's key, and represents the new billing terms: discounts,
// taxes and meta records are taken from the new item only. The old
// item's state is callback input, nothing more.
func (c *Comparator) Merge(oldItem, newItem *lineitem.LineItem) (*lineitem.LineItem, error) {
	if oldItem == nil || newItem == nil {
		return nil, ierr.NewError("both old and new items are required").
			Mark(ierr.ErrValidation)
	}

	oldMeta := oldItem.Meta().Merged()
	newMeta := newItem.Meta().Merged()

	price := c.price(oldItem.ExtendedPrice(), newItem.ExtendedPrice(), oldMeta, newMeta)

	merged, err := lineitem.New(price, 1, newItem.Key())
	if err != nil {
		return nil, err
	}

	description := ""
	if c.describe != nil {
		description = c.describe(oldMeta, newMeta)
	}
	if description == "" {
		description = newItem.Description()
	}
	merged.SetDescription(description)

	for _, d := range newItem.Discounts() {
		merged.AttachDiscount(d)
	}
	for _, t := range newItem.Taxes() {
		merged.AttachTax(t)
	}
	for _, rec := range newItem.Meta().Items() {
		merged.Meta().Append(rec)
	}

	return merged, nil
}
