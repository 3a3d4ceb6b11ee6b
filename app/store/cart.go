package store

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/collection"
	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
	"github.com/shashiranjanraj/bazario/pkg/logger"
)

// cartKey is the kvstore key holding the cart snapshot.
const cartKey = "cart"

// localIDPrefix marks line ids generated client-side before the backend has
// assigned a real one.
const localIDPrefix = "local-"

// IsLocalID reports whether id was generated client-side.
func IsLocalID(id string) bool { return strings.HasPrefix(id, localIDPrefix) }

// CartStore owns the local cart. Every mutation applies immediately — the
// shopper never waits on the network to see their own edit — and is persisted
// before the mutation returns. Alignment with the backend is the
// reconciler's job, not the store's.
//
// An empty item list means different things before and after hydration:
// before, the cart is simply not loaded yet; after, it is genuinely empty.
type CartStore struct {
	mu       sync.RWMutex
	kv       kvstore.Store
	items    []models.CartItem
	hydrated bool
}

// NewCartStore builds an unhydrated cart on top of kv.
func NewCartStore(kv kvstore.Store) *CartStore {
	return &CartStore{kv: kv}
}

// Hydrate loads the persisted snapshot synchronously. Missing or corrupt data
// yields an empty cart; either way the store ends up hydrated, and hydration
// never reverts.
func (c *CartStore) Hydrate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hydrated {
		return
	}
	c.hydrated = true

	raw, err := c.kv.Get(cartKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		logger.Warn("cart: read persisted snapshot", "error", err)
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("cart: persisted snapshot is unreadable, discarding", "error", err)
		return
	}
	c.items = items
}

// Hydrated reports whether Hydrate (or a SetItems) has run.
func (c *CartStore) Hydrated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hydrated
}

// Items returns a copy of the current lines.
func (c *CartStore) Items() []models.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the total unit count across all lines.
func (c *CartStore) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal returns the sum of line totals.
func (c *CartStore) Subtotal() float64 {
	items := c.Items()
	return collection.Sum(items, func(it models.CartItem) float64 {
		return it.LineTotal()
	})
}

// Find returns the line with the given id.
func (c *CartStore) Find(itemID string) (models.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == itemID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// AddItem adds quantity units of product. If a line for the same product
// already exists the quantities merge into it; otherwise a new line is
// appended under a temporary local id, flagged as syncing until a server
// snapshot replaces it. Returns the affected line.
func (c *CartStore) AddItem(product models.Product, quantity int) models.CartItem {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			it := c.items[i]
			c.mu.Unlock()
			c.persist()
			return it
		}
	}

	it := models.CartItem{
		ID:       localIDPrefix + uuid.NewString(),
		Product:  product,
		Quantity: quantity,
		Syncing:  true,
	}
	c.items = append(c.items, it)
	c.mu.Unlock()
	c.persist()
	return it
}

// UpdateQuantity sets the quantity of a line, clamping to a minimum of 1.
// Dropping a line is an explicit RemoveItem, never a side effect of a
// quantity edit. Returns false if the line does not exist.
func (c *CartStore) UpdateQuantity(itemID string, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity = quantity
			c.mu.Unlock()
			c.persist()
			return true
		}
	}
	c.mu.Unlock()
	return false
}

// RemoveItem deletes a line. Removing an id that is not present is a no-op:
// the line may already be gone from a fresher server snapshot.
func (c *CartStore) RemoveItem(itemID string) {
	c.mu.Lock()
	kept := c.items[:0]
	removed := false
	for _, it := range c.items {
		if it.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
	c.mu.Unlock()

	if removed {
		c.persist()
	}
}

// SetItems replaces the whole cart with a server snapshot and marks the store
// hydrated. Lines arriving here are server-confirmed, so none are syncing.
func (c *CartStore) SetItems(items []models.CartItem) {
	for i := range items {
		items[i].Syncing = false
	}

	c.mu.Lock()
	c.items = items
	c.hydrated = true
	c.mu.Unlock()

	c.persist()
	event.Fire(TopicCartSynced, len(items))
}

// Clear empties the cart. The store stays hydrated: an explicitly emptied
// cart is a loaded cart.
func (c *CartStore) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.persist()
}

func (c *CartStore) persist() {
	c.mu.RLock()
	raw, err := json.Marshal(c.items)
	c.mu.RUnlock()
	if err != nil {
		logger.Error("cart: marshal snapshot", "error", err)
		return
	}
	if err := c.kv.Put(cartKey, raw); err != nil {
		logger.Error("cart: persist snapshot", "error", err)
	}
}
