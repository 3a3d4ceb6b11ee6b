package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
	"github.com/shashiranjanraj/bazario/pkg/logger"
)

// Orders returns the authenticated user's order history.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	resp, err := httpclient.Get(c.url("/orders")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: orders: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: orders: %w", err)
	}

	var out []models.Order
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: orders: %w", err)
	}
	return out, nil
}

// Order returns a single order with its line items.
func (c *Client) Order(ctx context.Context, id int64) (*models.Order, error) {
	resp, err := httpclient.Get(c.url("/orders/" + strconv.FormatInt(id, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: order %d: %w", id, err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: order %d: %w", id, err)
	}

	var out models.Order
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: order %d: %w", id, err)
	}
	return &out, nil
}

// PlaceOrder converts the server-side cart into an order and returns it along
// with the payment reference the gateway callback will echo back.
func (c *Client) PlaceOrder(ctx context.Context) (*models.Order, string, error) {
	resp, err := httpclient.Post(c.url("/orders")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, "", fmt.Errorf("api: place order: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, "", fmt.Errorf("api: place order: %w", err)
	}

	var out struct {
		Order            models.Order `json:"order"`
		PaymentReference string       `json:"payment_reference"`
	}
	if err := resp.JSON(&out); err != nil {
		return nil, "", fmt.Errorf("api: place order: %w", err)
	}
	return &out.Order, out.PaymentReference, nil
}

// ConfirmPayment reports a completed gateway payment for an order.
func (c *Client) ConfirmPayment(ctx context.Context, orderID int64, reference string) error {
	resp, err := httpclient.Post(c.url("/orders/"+strconv.FormatInt(orderID, 10)+"/confirm")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]string{"reference": reference}).
		Send()
	if err != nil {
		return fmt.Errorf("api: confirm payment: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: confirm payment: %w", err)
	}
	return nil
}

// StreamOrderUpdates opens the realtime order status websocket and returns a
// channel of updates. The channel closes when the connection drops or ctx is
// cancelled; callers that want the stream back simply call again.
func (c *Client) StreamOrderUpdates(ctx context.Context, wsBase string) (<-chan models.OrderUpdate, error) {
	header := http.Header{}
	if tok := c.token(); tok != "" {
		header.Set("Authorization", "Bearer "+tok)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsBase+"/ws/orders", header)
	if err != nil {
		return nil, fmt.Errorf("api: dial order stream: %w", err)
	}

	updates := make(chan models.OrderUpdate)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(updates)
		defer conn.Close()
		for {
			var u models.OrderUpdate
			if err := conn.ReadJSON(&u); err != nil {
				if ctx.Err() == nil {
					logger.Warn("api: order stream closed", "error", err)
				}
				return
			}
			select {
			case updates <- u:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, nil
}
