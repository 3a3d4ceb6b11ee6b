package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

type fakeCartAPI struct {
	fetch      func(ctx context.Context) ([]models.CartItem, error)
	addErr     error
	updateErr  error
	removeErr  error
	clearErr   error
	fetchCalls int
	added      []int64
	updated    []string
	removed    []string
	cleared    int
}

func (f *fakeCartAPI) FetchCart(ctx context.Context) ([]models.CartItem, error) {
	f.fetchCalls++
	if f.fetch != nil {
		return f.fetch(ctx)
	}
	return nil, nil
}

func (f *fakeCartAPI) AddCartItem(_ context.Context, productID int64, _ int) error {
	f.added = append(f.added, productID)
	return f.addErr
}

func (f *fakeCartAPI) UpdateCartItem(_ context.Context, itemID string, _ int) error {
	f.updated = append(f.updated, itemID)
	return f.updateErr
}

func (f *fakeCartAPI) RemoveCartItem(_ context.Context, itemID string) error {
	f.removed = append(f.removed, itemID)
	return f.removeErr
}

func (f *fakeCartAPI) ClearCart(context.Context) error {
	f.cleared++
	return f.clearErr
}

func newReconciler(t *testing.T, authed bool) (*Reconciler, *CartStore, *fakeCartAPI) {
	t.Helper()
	notify.SetOutput(io.Discard)

	sessions := NewSessionStore(newKV(t))
	if authed {
		sessions.SetAuth(testSession)
	} else {
		sessions.Hydrate()
	}

	cart := NewCartStore(newKV(t))
	cart.Hydrate()

	api := &fakeCartAPI{}
	return NewReconciler(sessions, cart, api), cart, api
}

func TestGuestAddStaysLocal(t *testing.T) {
	r, cart, api := newReconciler(t, false)

	r.AddItem(context.Background(), mug, 2)

	assert.Len(t, cart.Items(), 1)
	assert.Empty(t, api.added)
	assert.Equal(t, 0, api.fetchCalls)
}

func TestAuthedAddMirrorsAndRefreshes(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		return []models.CartItem{{ID: "41", Product: mug, Quantity: 2}}, nil
	}

	r.AddItem(context.Background(), mug, 2)

	assert.Equal(t, []int64{7}, api.added)
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "41", items[0].ID)
	assert.False(t, items[0].Syncing)
}

func TestMirrorFailureKeepsLocalEdit(t *testing.T) {
	r, cart, api := newReconciler(t, true)
	api.addErr = errors.New("backend down")

	var buf bytes.Buffer
	notify.SetOutput(&buf)

	it := r.AddItem(context.Background(), mug, 2)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, it.ID, items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Contains(t, buf.String(), "local cart is kept")
	// A failed mirror must not trigger a refresh that could clobber state.
	assert.Equal(t, 0, api.fetchCalls)
}

func TestUpdateQuantityMirrorsBackendLinesOnly(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)

	cart.SetItems([]models.CartItem{{ID: "41", Product: mug, Quantity: 2}})
	localLine := cart.AddItem(tee, 1)
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		return []models.CartItem{{ID: "41", Product: mug, Quantity: 5}}, nil
	}

	r.UpdateQuantity(context.Background(), localLine.ID, 3)
	r.UpdateQuantity(context.Background(), "41", 5)

	assert.Equal(t, []string{"41"}, api.updated)
}

func TestUpdateQuantityClampsBeforeMirroring(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	cart.SetItems([]models.CartItem{{ID: "41", Product: mug, Quantity: 2}})
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		return []models.CartItem{{ID: "41", Product: mug, Quantity: 1}}, nil
	}

	ok := r.UpdateQuantity(context.Background(), "41", -3)

	require.True(t, ok)
	it, found := cart.Find("41")
	require.True(t, found)
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, []string{"41"}, api.updated)
}

func TestRemoveUnknownLineDoesNotCallBackend(t *testing.T) {
	r, _, api := newReconciler(t, true)

	r.RemoveItem(context.Background(), localIDPrefix+"ghost")

	assert.Empty(t, api.removed)
}

func TestRemoveBackendLineMirrors(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	cart.SetItems([]models.CartItem{{ID: "41", Product: mug, Quantity: 2}})

	r.RemoveItem(context.Background(), "41")

	assert.Empty(t, cart.Items())
	assert.Equal(t, []string{"41"}, api.removed)
}

func TestClearMirrors(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	cart.AddItem(mug, 1)

	r.Clear(context.Background())

	assert.Empty(t, cart.Items())
	assert.Equal(t, 1, api.cleared)
}

func TestEachMirroredMutationTriggersRefetch(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	cart.SetItems([]models.CartItem{{ID: "41", Product: mug, Quantity: 2}})

	// Every successful mirror pulls the server cart so the optimistic edit
	// is replaced by confirmed state.
	r.UpdateQuantity(context.Background(), "41", 5)
	assert.Equal(t, 1, api.fetchCalls)

	r.RemoveItem(context.Background(), "41")
	assert.Equal(t, 2, api.fetchCalls)

	r.Clear(context.Background())
	assert.Equal(t, 3, api.fetchCalls)
}

func TestRefreshSkippedForGuests(t *testing.T) {
	r, _, api := newReconciler(t, false)

	r.Refresh(context.Background())

	assert.Equal(t, 0, api.fetchCalls)
}

func TestRefreshSkippedBeforeHydration(t *testing.T) {
	notify.SetOutput(io.Discard)

	sessions := NewSessionStore(newKV(t))
	cart := NewCartStore(newKV(t))
	api := &fakeCartAPI{}
	r := NewReconciler(sessions, cart, api)

	r.Refresh(context.Background())

	assert.Equal(t, 0, api.fetchCalls)
}

func TestRefreshAdoptsServerSnapshot(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		return []models.CartItem{
			{ID: "41", Product: mug, Quantity: 2},
			{ID: "42", Product: tee, Quantity: 1},
		}, nil
	}

	r.Refresh(context.Background())

	assert.Len(t, cart.Items(), 2)
}

func TestRefreshFailureKeepsLocalCart(t *testing.T) {
	r, cart, api := newReconciler(t, true)
	cart.AddItem(mug, 2)
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		return nil, errors.New("timeout")
	}

	r.Refresh(context.Background())

	assert.Len(t, cart.Items(), 1)
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	defer event.Flush()
	r, cart, api := newReconciler(t, true)

	older := []models.CartItem{{ID: "41", Product: mug, Quantity: 1}}
	newer := []models.CartItem{{ID: "41", Product: mug, Quantity: 9}}

	// The first fetch is slow: while it is on the wire a second refresh
	// starts and finishes. Its snapshot must win over the older response.
	api.fetch = func(context.Context) ([]models.CartItem, error) {
		api.fetch = func(context.Context) ([]models.CartItem, error) {
			return newer, nil
		}
		r.Refresh(context.Background())
		return older, nil
	}

	r.Refresh(context.Background())

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].Quantity)
	assert.Equal(t, 2, api.fetchCalls)
}
