package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
)

// Admin endpoints. Permission checks happen client-side in rbac before a
// command reaches these, and again server-side; the client check only saves
// the round trip.

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	SKU         string   `json:"sku,omitempty"`
	Images      []string `json:"images,omitempty"`
	CategoryID  int64    `json:"category_id,omitempty"`
}

// CreateProduct adds a product to the catalogue.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	resp, err := httpclient.Post(c.url("/admin/products")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(in).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: create product: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: create product: %w", err)
	}

	var out models.Product
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: create product: %w", err)
	}
	ForgetCatalog()
	return &out, nil
}

// UpdateProduct edits an existing product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	resp, err := httpclient.Put(c.url("/admin/products/"+strconv.FormatInt(id, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(in).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: update product: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: update product: %w", err)
	}

	var out models.Product
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: update product: %w", err)
	}
	ForgetCatalog()
	ForgetProduct(id)
	return &out, nil
}

// DeleteProduct removes a product from the catalogue.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	resp, err := httpclient.Delete(c.url("/admin/products/"+strconv.FormatInt(id, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return fmt.Errorf("api: delete product: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: delete product: %w", err)
	}
	ForgetCatalog()
	ForgetProduct(id)
	return nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	resp, err := httpclient.Post(c.url("/admin/categories")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]string{"name": name}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: create category: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: create category: %w", err)
	}

	var out models.Category
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: create category: %w", err)
	}
	ForgetCatalog()
	return &out, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	resp, err := httpclient.Delete(c.url("/admin/categories/"+strconv.FormatInt(id, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return fmt.Errorf("api: delete category: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: delete category: %w", err)
	}
	ForgetCatalog()
	return nil
}

// AllOrders returns every order in the system (admin view).
func (c *Client) AllOrders(ctx context.Context) ([]models.Order, error) {
	resp, err := httpclient.Get(c.url("/admin/orders")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: all orders: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: all orders: %w", err)
	}

	var out []models.Order
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: all orders: %w", err)
	}
	return out, nil
}

// SetOrderStatus moves an order to a new fulfilment status.
func (c *Client) SetOrderStatus(ctx context.Context, orderID int64, status string) error {
	resp, err := httpclient.Patch(c.url("/admin/orders/"+strconv.FormatInt(orderID, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]string{"status": status}).
		Send()
	if err != nil {
		return fmt.Errorf("api: set order status: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: set order status: %w", err)
	}
	return nil
}

// Users lists all accounts (superadmin only).
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	resp, err := httpclient.Get(c.url("/admin/users")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: users: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: users: %w", err)
	}

	var out []models.User
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: users: %w", err)
	}
	return out, nil
}

// SetUserRole changes an account's role (superadmin only).
func (c *Client) SetUserRole(ctx context.Context, userID int64, role string) error {
	resp, err := httpclient.Patch(c.url("/admin/users/"+strconv.FormatInt(userID, 10))).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Body(map[string]string{"role": role}).
		Send()
	if err != nil {
		return fmt.Errorf("api: set user role: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: set user role: %w", err)
	}
	return nil
}
