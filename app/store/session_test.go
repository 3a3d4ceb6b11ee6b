package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

type fakeAuthAPI struct {
	logoutErr error
	calls     int
}

func (f *fakeAuthAPI) Logout(context.Context) error {
	f.calls++
	return f.logoutErr
}

var testSession = Session{
	Username: "ada",
	Email:    "ada@example.com",
	Role:     "user",
	Token:    "tok-1",
}

func TestSessionStartsUnhydrated(t *testing.T) {
	s := NewSessionStore(newKV(t))

	assert.False(t, s.Hydrated())
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
}

func TestSetAuthPersistsEncrypted(t *testing.T) {
	kv := newKV(t)
	s := NewSessionStore(kv)
	s.SetAuth(testSession)

	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok-1", s.Token())

	raw, err := kv.Get("session")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-1")
}

func TestHydrateRestoresSession(t *testing.T) {
	kv := newKV(t)
	NewSessionStore(kv).SetAuth(testSession)

	s := NewSessionStore(kv)
	assert.False(t, s.Authenticated())

	s.Hydrate()
	assert.True(t, s.Authenticated())
	assert.Equal(t, testSession, s.Current())
}

func TestHydrateDropsCorruptRecord(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Put("session", []byte("garbage")))

	s := NewSessionStore(kv)
	s.Hydrate()

	assert.True(t, s.Hydrated())
	assert.False(t, s.Authenticated())

	_, err := kv.Get("session")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestHydrateRunsOnce(t *testing.T) {
	kv := newKV(t)
	s := NewSessionStore(kv)
	s.Hydrate()

	NewSessionStore(kv).SetAuth(testSession)

	// A second Hydrate must not re-read the disk.
	s.Hydrate()
	assert.False(t, s.Authenticated())
}

func TestClearAuthRemovesPersistedRecord(t *testing.T) {
	kv := newKV(t)
	s := NewSessionStore(kv)
	s.SetAuth(testSession)

	s.ClearAuth()

	assert.False(t, s.Authenticated())
	assert.True(t, s.Hydrated())
	_, err := kv.Get("session")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLogoutKeepsSessionWhenBackendUnreachable(t *testing.T) {
	s := NewSessionStore(newKV(t))
	s.SetAuth(testSession)

	api := &fakeAuthAPI{logoutErr: errors.New("connection refused")}
	err := s.Logout(context.Background(), api)

	require.Error(t, err)
	assert.True(t, s.Authenticated())
}

func TestLogoutClearsAfterRemoteRevocation(t *testing.T) {
	defer event.Flush()
	s := NewSessionStore(newKV(t))
	s.SetAuth(testSession)

	fired := false
	event.Listen(TopicLoggedOut, func(interface{}) { fired = true })

	api := &fakeAuthAPI{}
	require.NoError(t, s.Logout(context.Background(), api))

	assert.Equal(t, 1, api.calls)
	assert.False(t, s.Authenticated())
	assert.True(t, fired)
}

func TestLogoutAsGuestIsNoOp(t *testing.T) {
	s := NewSessionStore(newKV(t))
	s.Hydrate()

	api := &fakeAuthAPI{}
	require.NoError(t, s.Logout(context.Background(), api))
	assert.Equal(t, 0, api.calls)
}

func TestUnauthorizedEventClearsSession(t *testing.T) {
	defer event.Flush()
	notify.SetOutput(io.Discard)

	s := NewSessionStore(newKV(t))
	s.SetAuth(testSession)
	s.BindEvents()

	event.Fire(TopicUnauthorized, nil)

	assert.False(t, s.Authenticated())
}

func TestUnauthorizedEventIgnoredForGuests(t *testing.T) {
	defer event.Flush()
	notify.SetOutput(io.Discard)

	kv := newKV(t)
	s := NewSessionStore(kv)
	s.Hydrate()
	s.BindEvents()

	// Must not attempt a delete or notify when there is nothing to clear.
	event.Fire(TopicUnauthorized, nil)
	assert.False(t, s.Authenticated())
}
