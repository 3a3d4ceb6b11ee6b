package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
)

func newKV(t *testing.T) kvstore.Store {
	t.Helper()
	kv, err := kvstore.OpenFile(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

var mug = models.Product{ID: 7, Name: "Mug", Price: 9.5, Stock: 20}
var tee = models.Product{ID: 8, Name: "Tee", Price: 25, Stock: 5}

func TestCartStartsUnhydrated(t *testing.T) {
	c := NewCartStore(newKV(t))

	assert.False(t, c.Hydrated())
	assert.Empty(t, c.Items())

	c.Hydrate()
	assert.True(t, c.Hydrated())
	assert.Empty(t, c.Items())
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()

	c.AddItem(mug, 2)
	it := c.AddItem(mug, 3)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, it.ID, items[0].ID)
}

func TestAddItemNewLineGetsLocalID(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()

	it := c.AddItem(mug, 1)

	assert.True(t, IsLocalID(it.ID))
	assert.True(t, it.Syncing)
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()
	it := c.AddItem(mug, 3)

	ok := c.UpdateQuantity(it.ID, 0)
	require.True(t, ok)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()

	assert.False(t, c.UpdateQuantity("missing", 2))
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()
	c.AddItem(mug, 1)

	c.RemoveItem("not-there")

	assert.Len(t, c.Items(), 1)
}

func TestRemoveItem(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()
	it := c.AddItem(mug, 1)
	c.AddItem(tee, 1)

	c.RemoveItem(it.ID)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, tee.ID, items[0].Product.ID)
}

func TestSetItemsAdoptsSnapshotAndClearsSyncing(t *testing.T) {
	defer event.Flush()
	c := NewCartStore(newKV(t))

	var synced int
	event.Listen(TopicCartSynced, func(payload interface{}) {
		synced = payload.(int)
	})

	c.SetItems([]models.CartItem{
		{ID: "41", Product: mug, Quantity: 2, Syncing: true},
	})

	assert.True(t, c.Hydrated())
	items := c.Items()
	require.Len(t, items, 1)
	assert.False(t, items[0].Syncing)
	assert.Equal(t, 1, synced)
}

func TestClearKeepsHydration(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()
	c.AddItem(mug, 2)

	c.Clear()

	assert.True(t, c.Hydrated())
	assert.Empty(t, c.Items())
}

func TestCartPersistsAcrossInstances(t *testing.T) {
	kv := newKV(t)

	first := NewCartStore(kv)
	first.Hydrate()
	first.AddItem(mug, 2)
	first.AddItem(tee, 1)

	second := NewCartStore(kv)
	second.Hydrate()

	items := second.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartCorruptSnapshotYieldsEmptyHydratedCart(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Put("cart", []byte("{not json")))

	c := NewCartStore(kv)
	c.Hydrate()

	assert.True(t, c.Hydrated())
	assert.Empty(t, c.Items())
}

func TestCountAndSubtotal(t *testing.T) {
	c := NewCartStore(newKV(t))
	c.Hydrate()
	c.AddItem(mug, 2)
	c.AddItem(tee, 1)

	assert.Equal(t, 3, c.Count())
	assert.InDelta(t, 44.0, c.Subtotal(), 0.001)
}
