// Package daemon runs Bazario in the background: it keeps the local cart
// refreshed, follows realtime order updates, and serves a small loopback HTTP
// API with the cart snapshot, health and metrics.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/bazario/app/api"
	"github.com/shashiranjanraj/bazario/app/store"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/metrics"
	"github.com/shashiranjanraj/bazario/pkg/notify"
	"github.com/shashiranjanraj/bazario/pkg/schedule"
)

// refreshInterval is how often the daemon re-pulls the server cart.
const refreshInterval = 30 * time.Second

// Daemon is the long-running background process.
type Daemon struct {
	api        *api.Client
	sessions   *store.SessionStore
	cart       *store.CartStore
	reconciler *store.Reconciler
	addr       string
	wsBase     string
}

// New wires a daemon. addr is the loopback HTTP listen address, wsBase the
// websocket root for order updates.
func New(client *api.Client, sessions *store.SessionStore, cart *store.CartStore, reconciler *store.Reconciler, addr, wsBase string) *Daemon {
	return &Daemon{
		api:        client,
		sessions:   sessions,
		cart:       cart,
		reconciler: reconciler,
		addr:       addr,
		wsBase:     wsBase,
	}
}

// Run blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	schedule.Every(refreshInterval).Name("cart-refresh").Run(func() {
		d.reconciler.Refresh(ctx)
	})
	schedule.Start(ctx)

	go d.followOrders(ctx)

	srv := &http.Server{Addr: d.addr, Handler: d.router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("daemon: listening", "addr", d.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("daemon: stopped")
	return nil
}

func (d *Daemon) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/metrics", metrics.Handler())

	r.Get("/cart", func(w http.ResponseWriter, _ *http.Request) {
		snapshot := struct {
			Hydrated bool        `json:"hydrated"`
			Count    int         `json:"count"`
			Subtotal float64     `json:"subtotal"`
			Items    interface{} `json:"items"`
		}{
			Hydrated: d.cart.Hydrated(),
			Count:    d.cart.Count(),
			Subtotal: d.cart.Subtotal(),
			Items:    d.cart.Items(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logger.Warn("daemon: encode cart snapshot", "error", err)
		}
	})

	r.Get("/session", func(w http.ResponseWriter, _ *http.Request) {
		current := d.sessions.Current()
		out := struct {
			Authenticated bool   `json:"authenticated"`
			Username      string `json:"username,omitempty"`
			Role          string `json:"role,omitempty"`
		}{
			Authenticated: d.sessions.Authenticated(),
			Username:      current.Username,
			Role:          current.Role,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			logger.Warn("daemon: encode session snapshot", "error", err)
		}
	})

	return r
}

// followOrders keeps an order-update stream open while a session exists,
// backing off and retrying when the connection drops or the user is a guest.
func (d *Daemon) followOrders(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if !d.sessions.Authenticated() {
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		updates, err := d.api.StreamOrderUpdates(ctx, d.wsBase)
		if err != nil {
			logger.Warn("daemon: order stream unavailable", "error", err)
			select {
			case <-time.After(15 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		for u := range updates {
			notify.Infof("order #%d is now %s", u.OrderID, u.Status)
		}
	}
}
