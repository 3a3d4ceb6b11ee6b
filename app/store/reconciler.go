package store

import (
	"context"
	"sync/atomic"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/metrics"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

// CartAPI is the slice of the backend client the reconciler needs.
type CartAPI interface {
	FetchCart(ctx context.Context) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// Reconciler keeps the local cart aligned with the backend.
//
// Mutations are local-first: the cart store is updated before any network
// call, and a failed mirror never rolls the local edit back — the shopper's
// intent stands, the mirror is retried implicitly by the next refresh cycle.
// Every successful mirror is followed by a refetch, so server-confirmed
// state closes the gap behind each optimistic edit.
// Refreshes flow the other way and the freshest fetch wins: each fetch takes
// a sequence number, and a response that is no longer the newest in flight
// is discarded instead of clobbering later state.
type Reconciler struct {
	sessions *SessionStore
	cart     *CartStore
	api      CartAPI

	fetchSeq atomic.Uint64
}

// NewReconciler wires the reconciler over its stores and API client.
func NewReconciler(sessions *SessionStore, cart *CartStore, api CartAPI) *Reconciler {
	return &Reconciler{sessions: sessions, cart: cart, api: api}
}

// AddItem adds product locally, then mirrors to the backend and refreshes so
// the temporary local line id is replaced by the server-assigned one.
func (r *Reconciler) AddItem(ctx context.Context, product models.Product, quantity int) models.CartItem {
	if quantity < 1 {
		quantity = 1
	}
	it := r.cart.AddItem(product, quantity)

	// The backend merges quantities itself, so the mirror sends the amount
	// just added, never the merged line total.
	if r.sessions.Authenticated() {
		if r.mirror("add item", func() error {
			return r.api.AddCartItem(ctx, product.ID, quantity)
		}) {
			r.Refresh(ctx)
		}
	}
	return it
}

// UpdateQuantity edits a line locally, then mirrors. Lines still under a
// local id have no backend counterpart to address yet; the refresh that
// follows a successful add swaps in the server id, after which edits mirror.
func (r *Reconciler) UpdateQuantity(ctx context.Context, itemID string, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}
	if !r.cart.UpdateQuantity(itemID, quantity) {
		return false
	}

	if r.sessions.Authenticated() && !IsLocalID(itemID) {
		if r.mirror("update quantity", func() error {
			return r.api.UpdateCartItem(ctx, itemID, quantity)
		}) {
			r.Refresh(ctx)
		}
	}
	return true
}

// RemoveItem deletes a line locally, then mirrors when the line had a
// backend id.
func (r *Reconciler) RemoveItem(ctx context.Context, itemID string) {
	r.cart.RemoveItem(itemID)

	if r.sessions.Authenticated() && !IsLocalID(itemID) {
		if r.mirror("remove item", func() error {
			return r.api.RemoveCartItem(ctx, itemID)
		}) {
			r.Refresh(ctx)
		}
	}
}

// Clear empties the cart locally, then mirrors.
func (r *Reconciler) Clear(ctx context.Context) {
	r.cart.Clear()

	if r.sessions.Authenticated() {
		if r.mirror("clear cart", func() error {
			return r.api.ClearCart(ctx)
		}) {
			r.Refresh(ctx)
		}
	}
}

// Refresh fetches the server cart and adopts it. It is a no-op for guests
// and before the session store has hydrated: fetching with no token would
// 401, and fetching before hydration could adopt a snapshot for the wrong
// identity.
//
// The fetch takes a sequence number up front. If a newer refresh started
// while this one was on the wire, the result is stale and dropped.
func (r *Reconciler) Refresh(ctx context.Context) {
	if !r.sessions.Hydrated() || !r.sessions.Authenticated() {
		return
	}

	seq := r.fetchSeq.Add(1)

	items, err := r.api.FetchCart(ctx)
	if err != nil {
		logger.Warn("reconciler: refresh failed, keeping local cart", "error", err)
		return
	}

	if r.fetchSeq.Load() != seq {
		metrics.StaleFetchesDiscarded.Inc()
		logger.Debug("reconciler: discarding stale cart fetch", "seq", seq)
		return
	}

	r.cart.SetItems(items)
}

// mirror runs a backend mutation and reports whether it succeeded. Failure is
// a notice, not an error: the local cart already holds the shopper's intent.
func (r *Reconciler) mirror(op string, fn func() error) bool {
	if err := fn(); err != nil {
		metrics.CartSyncFailures.Inc()
		logger.Warn("reconciler: mirror failed", "op", op, "error", err)
		notify.Warnf("could not sync your cart (%s) — your local cart is kept", op)
		return false
	}
	return true
}
