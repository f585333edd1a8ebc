package types

import (
	"github.com/samber/lo"

	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
)

// TaxType determines how a tax rate is applied to a priced total.
//
//   - exclusive taxes are added on top of the total
//   - inclusive taxes are assumed embedded in the total and only reported
//   - inclusive_calculated taxes are backed out of a tax-inclusive total
type TaxType string

const (
	TaxTypeInclusive           TaxType = "inclusive"
	TaxTypeInclusiveCalculated TaxType = "inclusive_calculated"
	TaxTypeExclusive           TaxType = "exclusive"
)

var TaxTypeValues = []TaxType{
	TaxTypeInclusive,
	TaxTypeInclusiveCalculated,
	TaxTypeExclusive,
}

func (t TaxType) Validate() error {
	if !lo.Contains(TaxTypeValues, t) {
		return ierr.NewError("invalid tax type").
			WithHint("Tax type must be inclusive, inclusive_calculated or exclusive").
			WithReportableDetails(map[string]any{
				"allowed_values": TaxTypeValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (t TaxType) String() string {
	return string(t)
}
