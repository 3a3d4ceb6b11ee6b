package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/app/store"
	"github.com/shashiranjanraj/bazario/pkg/kvstore"
)

func newDaemon(t *testing.T) (*Daemon, *store.CartStore, *store.SessionStore) {
	t.Helper()
	kv, err := kvstore.OpenFile(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	sessions := store.NewSessionStore(kv)
	sessions.Hydrate()
	cart := store.NewCartStore(kv)
	cart.Hydrate()

	d := New(nil, sessions, cart, nil, "127.0.0.1:0", "ws://backend.test")
	return d, cart, sessions
}

func TestHealthz(t *testing.T) {
	d, _, _ := newDaemon(t)

	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCartSnapshot(t *testing.T) {
	d, cart, _ := newDaemon(t)
	cart.AddItem(models.Product{ID: 7, Name: "Mug", Price: 9.5}, 2)

	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Hydrated bool    `json:"hydrated"`
		Count    int     `json:"count"`
		Subtotal float64 `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Hydrated)
	assert.Equal(t, 2, out.Count)
	assert.InDelta(t, 19.0, out.Subtotal, 0.001)
}

func TestSessionSnapshot(t *testing.T) {
	d, _, sessions := newDaemon(t)

	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	sessions.SetAuth(store.Session{Username: "ada", Role: "user", Token: "tok"})

	rec = httptest.NewRecorder()
	d.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.JSONEq(t, `{"authenticated":true,"username":"ada","role":"user"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	d, _, _ := newDaemon(t)

	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
