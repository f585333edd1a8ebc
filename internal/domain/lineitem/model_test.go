package lineitem

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

func TestNew(t *testing.T) {
	item, err := New(decimal.NewFromFloat(9.99), 3, "svc_1")
	require.NoError(t, err)

	assert.Equal(t, "svc_1", item.Key())
	assert.Equal(t, 3, item.Quantity())
	assert.Equal(t, "29.97", item.ExtendedPrice().String())
}

func TestNew_NegativeQuantity(t *testing.T) {
	_, err := New(decimal.NewFromInt(10), -1, "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestSetPrice_TouchesNothingElse(t *testing.T) {
	item, err := New(decimal.NewFromInt(10), 2, "svc_1")
	require.NoError(t, err)

	d, err := NewDiscount(decimal.NewFromInt(1), types.DiscountTypeAmount)
	require.NoError(t, err)
	item.AttachDiscount(d)
	item.Meta().Append(meta.NewItem(types.Metadata{"k": "v"}))

	item.SetPrice(decimal.NewFromInt(5))

	assert.Equal(t, "5", item.Price().String())
	assert.Equal(t, 2, item.Quantity())
	assert.Equal(t, "svc_1", item.Key())
	assert.Len(t, item.Discounts(), 1)
	assert.Equal(t, 1, item.Meta().Len())
}

func TestNewDiscount_NegativeAmount(t *testing.T) {
	_, err := NewDiscount(decimal.NewFromInt(-5), types.DiscountTypeAmount)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestNewTax_NegativeRate(t *testing.T) {
	_, err := NewTax(decimal.NewFromInt(-5), types.TaxTypeExclusive, false)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestAttachmentOrderIsApplicationOrder(t *testing.T) {
	item, err := New(decimal.NewFromInt(100), 1, "")
	require.NoError(t, err)

	// 100 -> amount 50 -> 50 -> 10% -> 45.
	flat, err := NewDiscount(decimal.NewFromInt(50), types.DiscountTypeAmount)
	require.NoError(t, err)
	pct, err := NewDiscount(decimal.NewFromFloat(0.10), types.DiscountTypePercent)
	require.NoError(t, err)

	item.AttachDiscount(flat)
	item.AttachDiscount(pct)
	got := item.TotalWithDiscounts()
	assert.True(t, got.Equal(decimal.NewFromInt(45)), "got %s", got)

	// Reversed order compounds differently: 100 -> 90 -> 40.
	item2, err := New(decimal.NewFromInt(100), 1, "")
	require.NoError(t, err)
	item2.AttachDiscount(pct)
	item2.AttachDiscount(flat)
	got = item2.TotalWithDiscounts()
	assert.True(t, got.Equal(decimal.NewFromInt(40)), "got %s", got)
}
