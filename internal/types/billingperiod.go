package types

import (
	"github.com/samber/lo"

	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
)

// BillingPeriod is the unit a pricing term is expressed in.
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY   BillingPeriod = "day"
	BILLING_PERIOD_WEEKLY  BillingPeriod = "week"
	BILLING_PERIOD_MONTHLY BillingPeriod = "month"
	BILLING_PERIOD_ANNUAL  BillingPeriod = "year"
	BILLING_PERIOD_ONETIME BillingPeriod = "onetime"
)

var BillingPeriodValues = []BillingPeriod{
	BILLING_PERIOD_DAILY,
	BILLING_PERIOD_WEEKLY,
	BILLING_PERIOD_MONTHLY,
	BILLING_PERIOD_ANNUAL,
	BILLING_PERIOD_ONETIME,
}

func (p BillingPeriod) Validate() error {
	if !lo.Contains(BillingPeriodValues, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Billing period must be day, week, month, year or onetime").
			WithReportableDetails(map[string]any{
				"allowed_values": BillingPeriodValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsRecurring reports whether the period renews. One-time periods are
// categorically excluded from proration and renewal arithmetic.
func (p BillingPeriod) IsRecurring() bool {
	return p != BILLING_PERIOD_ONETIME && p != ""
}

func (p BillingPeriod) String() string {
	return string(p)
}
