package services

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/pkg/notify"
)

const callbackAddr = "127.0.0.1:18743"

func TestAwaitCallbackResolvesOnGatewayRedirect(t *testing.T) {
	notify.SetOutput(io.Discard)
	c := NewCheckout(nil, nil, callbackAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Poll until the callback server is up, as a browser redirect would.
		url := "http://" + callbackAddr + "/payment/callback?reference=pay-abc&status=success"
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			resp, err := http.Get(url)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()

	res, err := c.awaitCallback(context.Background(), "pay-abc", 3*time.Second)
	<-done

	require.NoError(t, err)
	assert.Equal(t, "pay-abc", res.reference)
	assert.Equal(t, "success", res.status)
}

func TestAwaitCallbackRejectsUnknownReference(t *testing.T) {
	notify.SetOutput(io.Discard)
	c := NewCheckout(nil, nil, callbackAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(2 * time.Second)
		rejected := false
		for time.Now().Before(deadline) {
			url := "http://" + callbackAddr + "/payment/callback?reference=wrong&status=success"
			if !rejected {
				resp, err := http.Get(url)
				if err == nil {
					resp.Body.Close()
					if resp.StatusCode == http.StatusBadRequest {
						rejected = true
					}
				}
			} else {
				url = "http://" + callbackAddr + "/payment/callback?reference=pay-abc&status=failed"
				resp, err := http.Get(url)
				if err == nil {
					resp.Body.Close()
					if resp.StatusCode == http.StatusOK {
						return
					}
				}
			}
			time.Sleep(20 * time.Millisecond)
		}
	}()

	res, err := c.awaitCallback(context.Background(), "pay-abc", 3*time.Second)
	<-done

	require.NoError(t, err)
	assert.Equal(t, "failed", res.status)
}

func TestAwaitCallbackTimesOut(t *testing.T) {
	notify.SetOutput(io.Discard)
	c := NewCheckout(nil, nil, callbackAddr)

	_, err := c.awaitCallback(context.Background(), "pay-abc", 50*time.Millisecond)

	assert.ErrorIs(t, err, ErrPaymentTimeout)
}
