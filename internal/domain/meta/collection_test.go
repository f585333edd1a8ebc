package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

func TestCollection_AppendRemove(t *testing.T) {
	a := NewItem(types.Metadata{"k": "a"})
	b := NewItem(types.Metadata{"k": "b"})

	c := NewCollection()
	c.Append(a)
	c.Append(b)
	require.Equal(t, 2, c.Len())

	// FIFO order.
	assert.Same(t, a, c.Items()[0])
	assert.Same(t, b, c.Items()[1])

	// Removing an absent item is a no-op.
	c.Remove(NewItem(types.Metadata{"k": "c"}))
	assert.Equal(t, 2, c.Len())

	c.Remove(a)
	require.Equal(t, 1, c.Len())
	assert.Same(t, b, c.Items()[0])
}

func TestCollection_PermitsDuplicates(t *testing.T) {
	a := NewItem(types.Metadata{"k": "a"})

	c := NewCollection()
	c.Append(a)
	c.Append(a)
	assert.Equal(t, 2, c.Len())

	// Remove detaches only the first occurrence.
	c.Remove(a)
	assert.Equal(t, 1, c.Len())
}

func TestCollection_Merged(t *testing.T) {
	c := NewCollection(
		NewItem(types.Metadata{
			"name": "first",
			"tier": "basic",
		}),
		NewItem(types.Metadata{
			"name": "second",
		}),
	)

	merged := c.Merged()
	assert.Equal(t, "second", merged["name"], "later records overwrite earlier fields")
	assert.Equal(t, "basic", merged["tier"])
}

func TestCollection_MergedArraysCombine(t *testing.T) {
	c := NewCollection(
		NewItem(types.Metadata{"tags": []any{"hosting", "linux"}}),
		NewItem(types.Metadata{"tags": []any{"managed"}}),
	)

	merged := c.Merged()
	assert.Equal(t, []any{"hosting", "linux", "managed"}, merged["tags"])
}

func TestCollection_MergedArrayVsScalarReplaces(t *testing.T) {
	c := NewCollection(
		NewItem(types.Metadata{"tags": []any{"hosting"}}),
		NewItem(types.Metadata{"tags": "managed"}),
	)

	assert.Equal(t, "managed", c.Merged()["tags"])
}

func TestCollection_Bag(t *testing.T) {
	c := NewCollection(NewItem(types.Metadata{
		BagData: types.Metadata{FieldItemType: "service"},
	}))

	data := c.Bag(BagData)
	require.NotNil(t, data)
	assert.Equal(t, "service", data.GetString(FieldItemType))

	assert.Nil(t, c.Bag(BagProrate))
}
