package comparison

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

func mustItem(t *testing.T, price float64, qty int, key string) *lineitem.LineItem {
	t.Helper()
	item, err := lineitem.New(decimal.NewFromFloat(price), qty, key)
	require.NoError(t, err)
	return item
}

func TestMerge_DefaultPriceIsDelta(t *testing.T) {
	oldItem := mustItem(t, 25, 2, "svc_old") // extended 50
	newItem := mustItem(t, 40, 2, "svc_new") // extended 80
	newItem.SetDescription("Pro plan")

	cmp := NewComparator(nil, nil)
	merged, err := cmp.Merge(oldItem, newItem)
	require.NoError(t, err)

	assert.True(t, merged.Price().Equal(decimal.NewFromInt(30)), "got %s", merged.Price())
	assert.Equal(t, 1, merged.Quantity())
	assert.Equal(t, "svc_new", merged.Key())
	assert.Equal(t, "Pro plan", merged.Description())
}

func TestMerge_DowngradeCredits(t *testing.T) {
	oldItem := mustItem(t, 80, 1, "svc_old")
	newItem := mustItem(t, 50, 1, "svc_new")

	cmp := NewComparator(nil, nil)
	merged, err := cmp.Merge(oldItem, newItem)
	require.NoError(t, err)
	assert.True(t, merged.Price().Equal(decimal.NewFromInt(-30)), "got %s", merged.Price())
}

func TestMerge_TakesNewModifiersAndMeta(t *testing.T) {
	oldItem := mustItem(t, 50, 1, "svc_old")
	oldDiscount, err := lineitem.NewDiscount(decimal.NewFromFloat(0.5), types.DiscountTypePercent)
	require.NoError(t, err)
	oldItem.AttachDiscount(oldDiscount)
	oldItem.Meta().Append(meta.NewItem(types.Metadata{"plan": "basic"}))

	newItem := mustItem(t, 80, 1, "svc_new")
	newDiscount, err := lineitem.NewDiscount(decimal.NewFromInt(5), types.DiscountTypeAmount)
	require.NoError(t, err)
	newItem.AttachDiscount(newDiscount)
	newTax, err := lineitem.NewTax(decimal.NewFromInt(10), types.TaxTypeExclusive, false)
	require.NoError(t, err)
	newItem.AttachTax(newTax)
	newRecord := meta.NewItem(types.Metadata{"plan": "pro"})
	newItem.Meta().Append(newRecord)

	cmp := NewComparator(nil, nil)
	merged, err := cmp.Merge(oldItem, newItem)
	require.NoError(t, err)

	require.Len(t, merged.Discounts(), 1)
	assert.Same(t, newDiscount, merged.Discounts()[0])
	require.Len(t, merged.Taxes(), 1)
	assert.Same(t, newTax, merged.Taxes()[0])
	require.Equal(t, 1, merged.Meta().Len())
	assert.Same(t, newRecord, merged.Meta().Items()[0])
	assert.Equal(t, "pro", merged.Meta().Merged().GetString("plan"))
}

func TestMerge_CustomCallbacks(t *testing.T) {
	oldItem := mustItem(t, 50, 1, "svc_old")
	newItem := mustItem(t, 80, 1, "svc_new")

	// Charge-only policy: never credit on downgrade.
	chargeOnly := func(oldExt, newExt decimal.Decimal, _, _ types.Metadata) decimal.Decimal {
		delta := newExt.Sub(oldExt)
		if delta.IsNegative() {
			return decimal.Zero
		}
		return delta
	}
	describe := func(oldMeta, newMeta types.Metadata) string {
		return "Plan change"
	}

	cmp := NewComparator(chargeOnly, describe)
	merged, err := cmp.Merge(newItem, oldItem)
	require.NoError(t, err)
	assert.True(t, merged.Price().IsZero(), "got %s", merged.Price())
	assert.Equal(t, "Plan change", merged.Description())
}

func TestMerge_NilItems(t *testing.T) {
	item := mustItem(t, 10, 1, "svc")

	cmp := NewComparator(nil, nil)
	_, err := cmp.Merge(nil, item)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	_, err = cmp.Merge(item, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
