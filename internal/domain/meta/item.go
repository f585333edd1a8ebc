package meta

import (
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Bag names used by convention across the pricing pipeline. Each meta
// record maps bag names to nested types.Metadata bags; the first
// record attached to an item conventionally carries the _data bag.
const (
	BagData     = "_data"
	BagProrate  = "prorate"
	BagService  = "service"
	BagPackage  = "package"
	BagOption   = "option"
	BagDiscount = "discount"
	BagTax      = "tax"
	BagDomain   = "domain"
)

// Field keys inside the _data and prorate bags.
const (
	FieldItemType   = "item_type"
	FieldProrated   = "prorated"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldTerm       = "term"
	FieldPeriod     = "period"
	FieldProrataDay = "prorata_day"
)

// Item is a generic provenance record: an identified bag of key/value
// fields. Attaching or detaching items never changes an item's price;
// they only change what the description and proration stages observe.
type Item struct {
	id     string
	fields types.Metadata
}

// NewItem creates a meta record over the given fields. A nil map is
// replaced with an empty one so Set never panics.
func NewItem(fields types.Metadata) *Item {
	if fields == nil {
		fields = types.Metadata{}
	}
	return &Item{
		id:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_META_ITEM),
		fields: fields,
	}
}

func (i *Item) ID() string {
	return i.id
}

// Fields exposes the record's bags. Mutations are visible to every
// holder of the item; that is how proration rewrites provenance.
func (i *Item) Fields() types.Metadata {
	return i.fields
}

func (i *Item) Get(key string) any {
	return i.fields[key]
}

func (i *Item) Set(key string, value any) {
	i.fields[key] = value
}

// Bag returns the nested metadata bag stored under key, or nil.
func (i *Item) Bag(key string) types.Metadata {
	bag, _ := i.fields[key].(types.Metadata)
	return bag
}

// Carrier is anything that exposes an attachable meta collection.
type Carrier interface {
	Meta() *Collection
}
