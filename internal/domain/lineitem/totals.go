package lineitem

import (
	"github.com/shopspring/decimal"
)

// TaxDetail reports the portion a single tax contributed to a total.
type TaxDetail struct {
	Tax    *Tax
	Amount decimal.Decimal
}

// TotalWithDiscounts applies each attached discount in attachment
// order to the extended price. Discounts compound on the already
// discounted running total, and the result never goes negative.
func (i *LineItem) TotalWithDiscounts() decimal.Decimal {
	total := i.ExtendedPrice()
	for _, d := range i.discounts {
		total = d.Apply(total)
	}
	return total
}

// Totals runs the full modifier chain: discounts first, then each tax
// in attachment order over the running total. It returns the final
// total and the per-tax breakdown.
func (i *LineItem) Totals() (decimal.Decimal, []TaxDetail) {
	total := i.TotalWithDiscounts()

	details := make([]TaxDetail, 0, len(i.taxes))
	for _, t := range i.taxes {
		next, portion := t.Apply(total)
		details = append(details, TaxDetail{Tax: t, Amount: portion})
		total = next
	}
	return total, details
}

// TotalWithTaxes is the final total after discounts and taxes.
func (i *LineItem) TotalWithTaxes() decimal.Decimal {
	total, _ := i.Totals()
	return total
}
