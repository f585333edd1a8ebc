package meta

import (
	"reflect"

	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Collection is an ordered group of meta records. Insertion order is
// preserved and semantically meaningful: it is the rendering order of
// invoice lines and the precedence order of merged fields. Duplicates
// are permitted; representing repetition is the caller's decision.
type Collection struct {
	items []*Item
}

func NewCollection(items ...*Item) *Collection {
	c := &Collection{}
	for _, item := range items {
		c.Append(item)
	}
	return c
}

// Append adds a record to the end of the collection.
func (c *Collection) Append(item *Item) {
	if item == nil {
		return
	}
	c.items = append(c.items, item)
}

// Remove detaches a record by identity. Removing a record that is not
// present is a no-op. Only the first occurrence is removed.
func (c *Collection) Remove(item *Item) {
	if item == nil {
		return
	}
	for i, existing := range c.items {
		if existing == item {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns the records in FIFO insertion order.
func (c *Collection) Items() []*Item {
	return c.items
}

func (c *Collection) Len() int {
	return len(c.items)
}

// First returns the first record, or nil for an empty collection.
func (c *Collection) First() *Item {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[0]
}

// Merged flattens every record's fields into one mapping. Later
// records overwrite earlier ones field by field, except when both the
// existing and the incoming value are array-like: those are merged by
// concatenation rather than replaced, so tag sets from multiple
// records combine instead of clobbering each other.
func (c *Collection) Merged() types.Metadata {
	out := types.Metadata{}
	for _, item := range c.items {
		for k, v := range item.Fields() {
			existing, ok := out[k]
			if ok && isArrayLike(existing) && isArrayLike(v) {
				out[k] = mergeArrays(existing, v)
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Bag returns the nested bag stored under name in the merged view.
func (c *Collection) Bag(name string) types.Metadata {
	bag, _ := c.Merged()[name].(types.Metadata)
	return bag
}

func isArrayLike(v any) bool {
	if v == nil {
		return false
	}
	kind := reflect.TypeOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func mergeArrays(a, b any) []any {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	out := make([]any, 0, av.Len()+bv.Len())
	for i := 0; i < av.Len(); i++ {
		out = append(out, av.Index(i).Interface())
	}
	for i := 0; i < bv.Len(); i++ {
		out = append(out, bv.Index(i).Interface())
	}
	return out
}
