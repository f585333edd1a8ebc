package service

import (
	"time"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	"github.com/marcus-alicia/blesta-sub029/internal/logger"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Localizer renders a template key with arguments into display text.
// The string catalog behind it is a collaborator concern; this module
// only chooses keys and arguments.
type Localizer interface {
	Format(key string, args ...any) string
}

// LocalizerFunc adapts a plain function to the Localizer interface.
type LocalizerFunc func(key string, args ...any) string

func (f LocalizerFunc) Format(key string, args ...any) string {
	return f(key, args...)
}

// Template keys handed to the Localizer, one per line item variant.
const (
	KeyServiceDescription         = "invoice.line.service"
	KeyServiceProratedDescription = "invoice.line.service.prorated"
	KeyDomainDescription          = "invoice.line.domain"
	KeyOptionDescription          = "invoice.line.option"
	KeySetupDescription           = "invoice.line.setup"
	KeyDiscountPercentDescription = "invoice.line.discount.percent"
	KeyDiscountAmountDescription  = "invoice.line.discount.amount"
	KeyTaxDescription             = "invoice.line.tax"
)

// DescriptionService synthesizes human-readable line descriptions from
// the provenance meta on priced items.
type DescriptionService struct {
	localizer  Localizer
	dateFormat string
	logger     *logger.Logger
}

func NewDescriptionService(localizer Localizer, dateFormat string, log *logger.Logger) *DescriptionService {
	if log == nil {
		log = logger.NewNop()
	}
	return &DescriptionService{
		localizer:  localizer,
		dateFormat: dateFormat,
		logger:     log,
	}
}

// describable is the slice of line item behavior the description
// stage needs: provenance in, text out.
type describable interface {
	meta.Carrier
	Description() string
	SetDescription(string)
}

// Describe walks the items, their discounts, and their taxes, and
// assigns a description to every element whose meta identifies a known
// item type. Elements with no meta, no item type, or an empty
// synthesized text keep whatever description they already have.
func (s *DescriptionService) Describe(items []*lineitem.LineItem) {
	for _, item := range items {
		s.apply(item)
		for _, d := range item.Discounts() {
			s.apply(d)
		}
		for _, t := range item.Taxes() {
			s.apply(t)
		}
	}
}

func (s *DescriptionService) apply(target describable) {
	if target.Meta().Len() == 0 {
		return
	}
	text := s.synthesize(target.Meta().Merged())
	if text == "" {
		return
	}
	target.SetDescription(text)
}

// synthesize dispatches on the typed item variant decoded from the
// _data bag. Missing or unknown types produce an empty string and no
// mutation.
func (s *DescriptionService) synthesize(merged types.Metadata) string {
	data, _ := merged[meta.BagData].(types.Metadata)
	itemType, ok := types.ParseLineItemType(data[meta.FieldItemType])
	if !ok {
		return ""
	}

	switch itemType {
	case types.LineItemTypeService:
		return s.describeService(merged, data)
	case types.LineItemTypeDomain:
		return s.describeDomain(merged)
	case types.LineItemTypeOption:
		return s.describeOption(merged)
	case types.LineItemTypeSetup:
		return s.describeSetup(merged)
	case types.LineItemTypeDiscount:
		return s.describeDiscount(merged)
	case types.LineItemTypeTax:
		return s.describeTax(merged)
	default:
		return ""
	}
}

func (s *DescriptionService) describeService(merged, data types.Metadata) string {
	pkg, _ := merged[meta.BagPackage].(types.Metadata)
	svc, _ := merged[meta.BagService].(types.Metadata)
	name := pkg.GetString("name")
	if name == "" {
		name = svc.GetString("name")
	}

	// Prorated lines report the resolved window instead of the term.
	if data.GetBool(meta.FieldProrated) {
		start, okStart := data[meta.FieldStartDate].(time.Time)
		end, okEnd := data[meta.FieldEndDate].(time.Time)
		if okStart && okEnd {
			return s.localizer.Format(KeyServiceProratedDescription,
				name, s.formatDate(start), s.formatDate(end))
		}
	}

	return s.localizer.Format(KeyServiceDescription,
		name, svc[meta.FieldTerm], svc.GetString(meta.FieldPeriod))
}

func (s *DescriptionService) describeDomain(merged types.Metadata) string {
	domain, _ := merged[meta.BagDomain].(types.Metadata)
	svc, _ := merged[meta.BagService].(types.Metadata)
	return s.localizer.Format(KeyDomainDescription,
		domain.GetString("name"), svc[meta.FieldTerm], svc.GetString(meta.FieldPeriod))
}

func (s *DescriptionService) describeOption(merged types.Metadata) string {
	opt, _ := merged[meta.BagOption].(types.Metadata)
	label := opt.GetString("label")
	if label == "" {
		label = opt.GetString("name")
	}
	return s.localizer.Format(KeyOptionDescription, label, opt.GetString("value"))
}

func (s *DescriptionService) describeSetup(merged types.Metadata) string {
	pkg, _ := merged[meta.BagPackage].(types.Metadata)
	opt, _ := merged[meta.BagOption].(types.Metadata)
	name := pkg.GetString("name")
	if label := opt.GetString("label"); label != "" {
		name = label
	}
	return s.localizer.Format(KeySetupDescription, name)
}

func (s *DescriptionService) describeDiscount(merged types.Metadata) string {
	disc, _ := merged[meta.BagDiscount].(types.Metadata)
	key := KeyDiscountAmountDescription
	if disc.GetString("type") == types.DiscountTypePercent.String() {
		key = KeyDiscountPercentDescription
	}
	return s.localizer.Format(key, disc.GetString("code"), disc["amount"])
}

func (s *DescriptionService) describeTax(merged types.Metadata) string {
	tax, _ := merged[meta.BagTax].(types.Metadata)
	return s.localizer.Format(KeyTaxDescription, tax.GetString("name"), tax["rate"])
}

func (s *DescriptionService) formatDate(t time.Time) string {
	return t.Format(s.dateFormat)
}
