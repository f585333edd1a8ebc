package types

import (
	"github.com/samber/lo"

	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
)

// DiscountType determines how a discount amount is interpreted.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeAmount  DiscountType = "amount"
)

var DiscountTypeValues = []DiscountType{
	DiscountTypePercent,
	DiscountTypeAmount,
}

func (t DiscountType) Validate() error {
	if !lo.Contains(DiscountTypeValues, t) {
		return ierr.NewError("invalid discount type").
			WithHint("Discount type must be percent or amount").
			WithReportableDetails(map[string]any{
				"allowed_values": DiscountTypeValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (t DiscountType) String() string {
	return string(t)
}
