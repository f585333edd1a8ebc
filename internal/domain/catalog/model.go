package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/types"
	"github.com/marcus-alicia/blesta-sub029/internal/validator"
)

// Package is a sellable product definition.
type Package struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Taxable       bool   `json:"taxable"`
	ProrataDay    int    `json:"prorata_day" validate:"gte=0,lte=31"`
	ProrataCutoff int    `json:"prorata_cutoff" validate:"gte=0,lte=31"`
}

// Pricing is one term/period row of a package's price list.
type Pricing struct {
	ID            string              `json:"id" validate:"required"`
	PackageID     string              `json:"package_id"`
	Term          int                 `json:"term" validate:"gt=0"`
	Period        types.BillingPeriod `json:"period" validate:"required"`
	Price         decimal.Decimal     `json:"price"`
	PriceRenews   decimal.Decimal     `json:"price_renews"`
	PriceTransfer decimal.Decimal     `json:"price_transfer"`
	SetupFee      decimal.Decimal     `json:"setup_fee"`
	CancelFee     decimal.Decimal     `json:"cancel_fee"`
	Currency      string              `json:"currency" validate:"required,len=3"`
}

// Option is a configurable add-on a package offers.
type Option struct {
	ID     string         `json:"id" validate:"required"`
	Label  string         `json:"label"`
	Name   string         `json:"name" validate:"required"`
	Type   string         `json:"type"`
	Values []*OptionValue `json:"values" validate:"dive"`
}

// OptionValue is one selectable value of an option, priced per
// term/period. Packages may offer only a subset of terms per value;
// a missing row is an expected shape of catalog data, not an error.
type OptionValue struct {
	ID      string     `json:"id" validate:"required"`
	Value   string     `json:"value"`
	Min     *int       `json:"min,omitempty"`
	Max     *int       `json:"max,omitempty"`
	Step    *int       `json:"step,omitempty"`
	Pricing []*Pricing `json:"pricing" validate:"dive"`
}

func (p *Package) Validate() error {
	return validator.ValidateRequest(p)
}

func (p *Pricing) Validate() error {
	if err := validator.ValidateRequest(p); err != nil {
		return err
	}
	return p.Period.Validate()
}

func (o *Option) Validate() error {
	return validator.ValidateRequest(o)
}

// PricingFor returns the row matching the given term and period, or
// nil when the value is not offered at that combination.
func (v *OptionValue) PricingFor(term int, period types.BillingPeriod) *Pricing {
	for _, row := range v.Pricing {
		if row.Term == term && row.Period == period {
			return row
		}
	}
	return nil
}

// ValueByID returns the option value with the given id, or nil.
func (o *Option) ValueByID(id string) *OptionValue {
	for _, v := range o.Values {
		if v.ID == id {
			return v
		}
	}
	return nil
}
