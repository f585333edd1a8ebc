package service

import (
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/catalog"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/comparison"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/proration"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/logger"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
	"github.com/marcus-alicia/blesta-sub029/internal/validator"
)

// ServiceVars is the caller-supplied billing state of one service.
type ServiceVars struct {
	ServiceID  string
	Qty        int
	DomainName string
	// OverridePrice and OverrideCurrency win over the catalog price
	// unconditionally when set.
	OverridePrice    *decimal.Decimal
	OverrideCurrency *string
	// ConfigOptions maps option id to the selected value id, or to a
	// count for quantity-type options.
	ConfigOptions map[string]string
	StartDate     time.Time
	Prorate       bool
	// UseRenewalPrice bills the renewal price where the catalog
	// defines one.
	UseRenewalPrice bool
}

// DiscountInput is an already-resolved discount to attach.
type DiscountInput struct {
	Code   string
	Amount decimal.Decimal
	Type   types.DiscountType
}

// TaxInput is an already-resolved tax rate to attach. Jurisdiction
// determination happens upstream.
type TaxInput struct {
	Name     string
	Rate     decimal.Decimal
	Type     types.TaxType
	Subtract bool
}

// BuildParams is the full input of one pricing run.
type BuildParams struct {
	Vars            ServiceVars
	Package         *catalog.Package `validate:"required"`
	Pricing         *catalog.Pricing `validate:"required"`
	Options         []*catalog.Option
	Discounts       []DiscountInput
	TaxRates        []TaxInput
	IncludeSetupFee bool
}

// PricingService assembles the full line item graph for a service:
// service/domain item, config option items, setup fees, each carrying
// discounts and taxes, then prorated and described in that fixed
// order.
type PricingService struct {
	calculator   *proration.Calculator
	descriptions *DescriptionService
	logger       *logger.Logger
}

func NewPricingService(calculator *proration.Calculator, descriptions *DescriptionService, log *logger.Logger) *PricingService {
	if log == nil {
		log = logger.NewNop()
	}
	return &PricingService{
		calculator:   calculator,
		descriptions: descriptions,
		logger:       log,
	}
}

// Build produces the fully priced, prorated and described line items
// for the given service state.
func (s *PricingService) Build(params BuildParams) ([]*lineitem.LineItem, error) {
	if err := validator.ValidateRequest(&params); err != nil {
		return nil, err
	}
	if err := params.Pricing.Validate(); err != nil {
		return nil, err
	}

	s.applyOverrides(&params)

	items := make([]*lineitem.LineItem, 0, 4)

	serviceItem, err := s.buildServiceItem(params)
	if err != nil {
		return nil, err
	}
	items = append(items, serviceItem)

	// Past the package's prorata cutoff day the client is billed the
	// prorated remainder plus the full first term up front.
	if s.cutoffReached(params) {
		fullTerm, err := s.buildFullTermItem(params)
		if err != nil {
			return nil, err
		}
		items = append(items, fullTerm)
	}

	optionItems, err := s.buildOptionItems(params)
	if err != nil {
		return nil, err
	}
	items = append(items, optionItems...)

	setupItems, err := s.buildSetupItems(params)
	if err != nil {
		return nil, err
	}
	items = append(items, setupItems...)

	if err := s.attachModifiers(items, params); err != nil {
		return nil, err
	}

	// Prorate before describing so descriptions can report the
	// resolved window.
	if _, err := s.calculator.ProrateCollection(items); err != nil {
		return nil, err
	}
	s.descriptions.Describe(items)

	return items, nil
}

// applyOverrides mutates the pricing record before item construction;
// an override always wins over the catalog price.
func (s *PricingService) applyOverrides(params *BuildParams) {
	if params.Vars.OverridePrice != nil {
		params.Pricing.Price = *params.Vars.OverridePrice
		params.Pricing.PriceRenews = *params.Vars.OverridePrice
	}
	if params.Vars.OverrideCurrency != nil {
		params.Pricing.Currency = *params.Vars.OverrideCurrency
	}
}

func (s *PricingService) buildServiceItem(params BuildParams) (*lineitem.LineItem, error) {
	pricing := params.Pricing
	price := pricing.Price
	if params.Vars.UseRenewalPrice && !pricing.PriceRenews.IsZero() {
		price = pricing.PriceRenews
	}

	qty := params.Vars.Qty
	if qty <= 0 {
		qty = 1
	}

	item, err := lineitem.New(price, qty, "service_"+params.Vars.ServiceID)
	if err != nil {
		return nil, err
	}

	itemType := types.LineItemTypeService
	if params.Vars.DomainName != "" {
		itemType = types.LineItemTypeDomain
	}

	fields := types.Metadata{
		meta.BagData: types.Metadata{
			meta.FieldItemType: itemType.String(),
		},
		meta.BagService: types.Metadata{
			"name":              params.Package.Name,
			meta.FieldTerm:      pricing.Term,
			meta.FieldPeriod:    pricing.Period.String(),
			meta.FieldStartDate: params.Vars.StartDate,
			"service_id":        params.Vars.ServiceID,
			"use_renewal_price": params.Vars.UseRenewalPrice,
		},
		meta.BagPackage: types.Metadata{
			"id":      params.Package.ID,
			"name":    params.Package.Name,
			"taxable": params.Package.Taxable,
		},
	}
	if params.Vars.DomainName != "" {
		fields[meta.BagDomain] = types.Metadata{
			"name": params.Vars.DomainName,
		}
	}
	if bag := s.prorateBag(params); bag != nil {
		fields[meta.BagProrate] = bag
	}
	item.Meta().Append(meta.NewItem(fields))

	return item, nil
}

// cutoffReached reports whether the start date falls past the
// package's prorata cutoff day, in which case the first full term is
// billed alongside the prorated remainder.
func (s *PricingService) cutoffReached(params BuildParams) bool {
	if s.prorateBag(params) == nil {
		return false
	}
	cutoff := params.Package.ProrataCutoff
	if cutoff < 1 || cutoff > 31 {
		return false
	}
	return params.Vars.StartDate.Day() > cutoff
}

// buildFullTermItem prices the first full term starting on the next
// prorata day. It is never prorated.
func (s *PricingService) buildFullTermItem(params BuildParams) (*lineitem.LineItem, error) {
	pricing := params.Pricing
	price := pricing.PriceRenews
	if price.IsZero() {
		price = pricing.Price
	}

	qty := params.Vars.Qty
	if qty <= 0 {
		qty = 1
	}

	item, err := lineitem.New(price, qty, "service_"+params.Vars.ServiceID+"_renewal")
	if err != nil {
		return nil, err
	}
	item.Meta().Append(meta.NewItem(types.Metadata{
		meta.BagData: types.Metadata{
			meta.FieldItemType: types.LineItemTypeService.String(),
		},
		meta.BagService: types.Metadata{
			"name":           params.Package.Name,
			meta.FieldTerm:   pricing.Term,
			meta.FieldPeriod: pricing.Period.String(),
			"service_id":     params.Vars.ServiceID,
		},
		meta.BagPackage: types.Metadata{
			"id":   params.Package.ID,
			"name": params.Package.Name,
		},
	}))
	return item, nil
}

// prorateBag returns the proration provenance for recurring items, or
// nil when proration does not apply.
func (s *PricingService) prorateBag(params BuildParams) types.Metadata {
	if !params.Vars.Prorate {
		return nil
	}
	if params.Package.ProrataDay < 1 || params.Package.ProrataDay > 31 {
		return nil
	}
	if !params.Pricing.Period.IsRecurring() {
		return nil
	}
	if params.Vars.StartDate.IsZero() {
		return nil
	}
	return types.Metadata{
		meta.FieldStartDate:  params.Vars.StartDate,
		meta.FieldTerm:       params.Pricing.Term,
		meta.FieldPeriod:     params.Pricing.Period.String(),
		meta.FieldProrataDay: params.Package.ProrataDay,
	}
}

func (s *PricingService) buildOptionItems(params BuildParams) ([]*lineitem.LineItem, error) {
	items := make([]*lineitem.LineItem, 0, len(params.Vars.ConfigOptions))

	for _, opt := range params.Options {
		selection, selected := params.Vars.ConfigOptions[opt.ID]
		if !selected {
			continue
		}

		value, qty := s.resolveSelection(opt, selection)
		if value == nil || qty == 0 {
			continue
		}

		row := value.PricingFor(params.Pricing.Term, params.Pricing.Period)
		if row == nil {
			// Packages may offer a subset of options per term; an
			// unmatched row is an omission, not an error.
			s.logger.Debugw("option has no pricing for term, skipping",
				"option", opt.ID,
				"term", params.Pricing.Term,
				"period", params.Pricing.Period,
			)
			continue
		}

		price := row.Price
		if params.Vars.UseRenewalPrice && !row.PriceRenews.IsZero() {
			price = row.PriceRenews
		}

		item, err := lineitem.New(price, qty, "option_"+opt.ID+"_"+value.ID)
		if err != nil {
			return nil, err
		}

		fields := types.Metadata{
			meta.BagData: types.Metadata{
				meta.FieldItemType: types.LineItemTypeOption.String(),
			},
			meta.BagOption: types.Metadata{
				"id":    opt.ID,
				"label": opt.Label,
				"name":  opt.Name,
				"value": value.Value,
			},
		}
		if bag := s.prorateBag(params); bag != nil {
			fields[meta.BagProrate] = bag
		}
		item.Meta().Append(meta.NewItem(fields))

		items = append(items, item)
	}

	return items, nil
}

// resolveSelection maps a raw selection string onto an option value
// and quantity. Quantity options interpret the selection as a count
// against their single value; every other type selects a value by id.
func (s *PricingService) resolveSelection(opt *catalog.Option, selection string) (*catalog.OptionValue, int) {
	if opt.Type == "quantity" {
		if len(opt.Values) == 0 {
			return nil, 0
		}
		qty, err := strconv.Atoi(selection)
		if err != nil || qty < 0 {
			return nil, 0
		}
		return opt.Values[0], qty
	}
	return opt.ValueByID(selection), 1
}

// buildSetupItems emits one-time setup fee lines for the service and
// any selected options that carry one. Setup lines are never prorated.
func (s *PricingService) buildSetupItems(params BuildParams) ([]*lineitem.LineItem, error) {
	if !params.IncludeSetupFee {
		return nil, nil
	}

	var items []*lineitem.LineItem

	if params.Pricing.SetupFee.IsPositive() {
		item, err := lineitem.New(params.Pricing.SetupFee, 1, "setup_service_"+params.Vars.ServiceID)
		if err != nil {
			return nil, err
		}
		item.Meta().Append(meta.NewItem(types.Metadata{
			meta.BagData: types.Metadata{
				meta.FieldItemType: types.LineItemTypeSetup.String(),
			},
			meta.BagPackage: types.Metadata{
				"id":   params.Package.ID,
				"name": params.Package.Name,
			},
		}))
		items = append(items, item)
	}

	for _, opt := range params.Options {
		selection, selected := params.Vars.ConfigOptions[opt.ID]
		if !selected {
			continue
		}
		value, qty := s.resolveSelection(opt, selection)
		if value == nil || qty == 0 {
			continue
		}
		row := value.PricingFor(params.Pricing.Term, params.Pricing.Period)
		if row == nil || !row.SetupFee.IsPositive() {
			continue
		}

		item, err := lineitem.New(row.SetupFee, 1, "setup_option_"+opt.ID)
		if err != nil {
			return nil, err
		}
		item.Meta().Append(meta.NewItem(types.Metadata{
			meta.BagData: types.Metadata{
				meta.FieldItemType: types.LineItemTypeSetup.String(),
			},
			meta.BagOption: types.Metadata{
				"id":    opt.ID,
				"label": opt.Label,
				"name":  opt.Name,
			},
		}))
		items = append(items, item)
	}

	return items, nil
}

// attachModifiers attaches discounts and taxes per provenance:
// discounts apply to recurring service/domain/option lines, taxes to
// every line when the package is taxable.
func (s *PricingService) attachModifiers(items []*lineitem.LineItem, params BuildParams) error {
	for _, item := range items {
		data := item.Meta().Bag(meta.BagData)
		itemType, _ := types.ParseLineItemType(data[meta.FieldItemType])

		if itemType != types.LineItemTypeSetup {
			for _, input := range params.Discounts {
				d, err := lineitem.NewDiscount(input.Amount, input.Type)
				if err != nil {
					return err
				}
				d.Meta().Append(meta.NewItem(types.Metadata{
					meta.BagData: types.Metadata{
						meta.FieldItemType: types.LineItemTypeDiscount.String(),
					},
					meta.BagDiscount: types.Metadata{
						"code":   input.Code,
						"amount": input.Amount,
						"type":   input.Type.String(),
					},
				}))
				item.AttachDiscount(d)
			}
		}

		if params.Package.Taxable {
			for _, input := range params.TaxRates {
				t, err := lineitem.NewTax(input.Rate, input.Type, input.Subtract)
				if err != nil {
					return err
				}
				t.Meta().Append(meta.NewItem(types.Metadata{
					meta.BagData: types.Metadata{
						meta.FieldItemType: types.LineItemTypeTax.String(),
					},
					meta.BagTax: types.Metadata{
						"name": input.Name,
						"rate": input.Rate,
						"type": input.Type.String(),
					},
				}))
				item.AttachTax(t)
			}
		}
	}
	return nil
}

// CompareServiceChange merges the old and new item graphs of a changed
// service into net-price items keyed by item identity, then prorates
// and re-describes the merged set. New items without an old
// counterpart pass through as-is; old items without a new counterpart
// are dropped, since the merged graph represents the new billing
// terms.
func (s *PricingService) CompareServiceChange(oldItems, newItems []*lineitem.LineItem, cmp *comparison.Comparator) ([]*lineitem.LineItem, error) {
	if cmp == nil {
		return nil, ierr.NewError("comparator is required").Mark(ierr.ErrValidation)
	}

	oldByKey := lo.KeyBy(oldItems, func(i *lineitem.LineItem) string { return i.Key() })

	merged := make([]*lineitem.LineItem, 0, len(newItems))
	for _, newItem := range newItems {
		oldItem, ok := oldByKey[newItem.Key()]
		if !ok || newItem.Key() == "" {
			merged = append(merged, newItem)
			continue
		}
		m, err := cmp.Merge(oldItem, newItem)
		if err != nil {
			return nil, err
		}
		merged = append(merged, m)
	}

	if _, err := s.calculator.ProrateCollection(merged); err != nil {
		return nil, err
	}
	s.descriptions.Describe(merged)

	return merged, nil
}
