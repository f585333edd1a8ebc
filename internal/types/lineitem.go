package types

import "github.com/samber/lo"

// LineItemType classifies what a priced line item represents. It is
// carried in the item's provenance meta and drives description
// formatting. Unknown or missing values are tolerated by consumers.
type LineItemType string

const (
	LineItemTypeService  LineItemType = "service"
	LineItemTypeDomain   LineItemType = "domain"
	LineItemTypeOption   LineItemType = "option"
	LineItemTypeDiscount LineItemType = "discount"
	LineItemTypeTax      LineItemType = "tax"
	LineItemTypeSetup    LineItemType = "setup"
)

var LineItemTypeValues = []LineItemType{
	LineItemTypeService,
	LineItemTypeDomain,
	LineItemTypeOption,
	LineItemTypeDiscount,
	LineItemTypeTax,
	LineItemTypeSetup,
}

// ParseLineItemType converts an arbitrary meta value into a known item
// type. The boolean is false for missing or unknown values.
func ParseLineItemType(v any) (LineItemType, bool) {
	s, ok := v.(string)
	if !ok {
		if t, isType := v.(LineItemType); isType {
			s = string(t)
		} else {
			return "", false
		}
	}
	t := LineItemType(s)
	if !lo.Contains(LineItemTypeValues, t) {
		return "", false
	}
	return t, true
}

func (t LineItemType) String() string {
	return string(t)
}
