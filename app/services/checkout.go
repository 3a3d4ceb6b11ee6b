// Package services holds the multi-step application flows that sit above the
// stores and the API client: checkout with its payment-gateway callback, and
// the admin catalog export.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/bazario/app/api"
	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/app/store"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

// ErrPaymentDeclined is returned when the gateway redirects back with a
// non-success status.
var ErrPaymentDeclined = errors.New("services: payment declined")

// ErrPaymentTimeout is returned when no gateway callback arrives in time.
var ErrPaymentTimeout = errors.New("services: timed out waiting for payment")

// callbackResult is what the gateway redirect carries back.
type callbackResult struct {
	reference string
	status    string
}

// Checkout drives the order placement flow: place the order from the
// server-side cart, hand the shopper the payment URL, run a loopback HTTP
// server for the gateway redirect, then confirm the payment and empty the
// cart on success.
type Checkout struct {
	api        *api.Client
	reconciler *store.Reconciler
	addr       string
}

// NewCheckout wires the flow. addr is the loopback listen address for the
// gateway redirect.
func NewCheckout(client *api.Client, reconciler *store.Reconciler, addr string) *Checkout {
	return &Checkout{api: client, reconciler: reconciler, addr: addr}
}

// Run executes the whole flow. It blocks until the payment resolves, ctx is
// cancelled, or the wait times out.
func (c *Checkout) Run(ctx context.Context, timeout time.Duration) (*models.Order, error) {
	order, reference, err := c.api.PlaceOrder(ctx)
	if err != nil {
		return nil, err
	}

	notify.Infof("order #%d placed, total %.2f", order.ID, order.Total)
	notify.Infof("complete the payment in your browser, reference %s", reference)

	result, err := c.awaitCallback(ctx, reference, timeout)
	if err != nil {
		return nil, err
	}
	if result.status != "success" {
		return nil, fmt.Errorf("%w: gateway status %q", ErrPaymentDeclined, result.status)
	}

	if err := c.api.ConfirmPayment(ctx, order.ID, result.reference); err != nil {
		return nil, err
	}

	// The backend emptied the server-side cart when the order confirmed;
	// mirror that locally.
	c.reconciler.Clear(ctx)
	c.reconciler.Refresh(ctx)

	notify.Successf("payment confirmed for order #%d", order.ID)
	return order, nil
}

// awaitCallback serves GET /payment/callback on the loopback address until
// the gateway redirects the browser there with our reference.
func (c *Checkout) awaitCallback(ctx context.Context, reference string, timeout time.Duration) (callbackResult, error) {
	results := make(chan callbackResult, 1)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/payment/callback", func(w http.ResponseWriter, req *http.Request) {
		res := callbackResult{
			reference: req.URL.Query().Get("reference"),
			status:    req.URL.Query().Get("status"),
		}
		if res.reference != reference {
			http.Error(w, "unknown payment reference", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h3>Bazario</h3><p>You can return to your terminal.</p></body></html>")

		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Addr: c.addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("checkout: callback server shutdown", "error", err)
		}
	}()

	select {
	case res := <-results:
		return res, nil
	case err := <-errCh:
		return callbackResult{}, fmt.Errorf("services: callback server: %w", err)
	case <-time.After(timeout):
		return callbackResult{}, ErrPaymentTimeout
	case <-ctx.Done():
		return callbackResult{}, ctx.Err()
	}
}
