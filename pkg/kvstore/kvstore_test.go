package kvstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/pkg/kvstore"
)

func TestFileStore_PutGetDelete(t *testing.T) {
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("cart", []byte(`[{"id":"1"}]`)))

	got, err := store.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, store.Delete("cart"))

	_, err = store.Get("cart")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestFileStore_GetMissingKey(t *testing.T) {
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("never-written")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestFileStore_OverwriteKeepsLatest(t *testing.T) {
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("session", []byte("first")))
	require.NoError(t, store.Put("session", []byte("second")))

	got, err := store.Get("session")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestFileStore_DeleteMissingKeyIsNoop(t *testing.T) {
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Delete("absent"))
}
