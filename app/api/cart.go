package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
)

// wireCartItem is the backend's cart line shape. Line ids are numeric on the
// wire and converted to strings client-side so they share a namespace with
// locally generated "local-" ids.
type wireCartItem struct {
	ID       int64          `json:"id"`
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type wireCart struct {
	Items []wireCartItem `json:"items"`
}

// FetchCart returns the server's view of the authenticated user's cart.
func (c *Client) FetchCart(ctx context.Context) ([]models.CartItem, error) {
	resp, err := httpclient.Get(c.url("/cart")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: fetch cart: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: fetch cart: %w", err)
	}

	var wire wireCart
	if err := resp.JSON(&wire); err != nil {
		return nil, fmt.Errorf("api: fetch cart: %w", err)
	}

	items := make([]models.CartItem, 0, len(wire.Items))
	for _, w := range wire.Items {
		items = append(items, models.CartItem{
			ID:       strconv.FormatInt(w.ID, 10),
			Product:  w.Product,
			Quantity: w.Quantity,
		})
	}
	return items, nil
}

// AddCartItem adds a product to the server-side cart. The backend merges
// quantities itself when the product already has a line.
func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) error {
	resp, err := httpclient.Post(c.url("/cart")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]interface{}{"product_id": productID, "quantity": quantity}).
		Send()
	if err != nil {
		return fmt.Errorf("api: add cart item: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: add cart item: %w", err)
	}
	return nil
}

// UpdateCartItem sets the quantity of an existing server-side cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	resp, err := httpclient.Put(c.url("/cart/items/"+itemID)).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]interface{}{"quantity": quantity}).
		Send()
	if err != nil {
		return fmt.Errorf("api: update cart item: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: update cart item: %w", err)
	}
	return nil
}

// RemoveCartItem deletes a server-side cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	resp, err := httpclient.Delete(c.url("/cart/items/"+itemID)).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return fmt.Errorf("api: remove cart item: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: remove cart item: %w", err)
	}
	return nil
}

// ClearCart empties the server-side cart.
func (c *Client) ClearCart(ctx context.Context) error {
	resp, err := httpclient.Post(c.url("/cart/clear")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return fmt.Errorf("api: clear cart: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: clear cart: %w", err)
	}
	return nil
}
