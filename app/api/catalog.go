package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/querycache"
)

// Catalogue responses change rarely, so they are cached briefly to keep
// repeated browsing snappy. Admin catalogue mutations call ForgetCatalog.
const catalogTTL = time.Minute

// Products returns one page of the catalogue, cached per page number.
func (c *Client) Products(ctx context.Context, page int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}

	var out models.ProductPage
	key := "products:" + strconv.Itoa(page)
	err := querycache.Remember(key, catalogTTL, &out, func(dest interface{}) error {
		resp, err := httpclient.Get(c.url("/products?page=" + strconv.Itoa(page))).
			WithContext(ctx).
			Timeout(requestTimeout).
			Bearer(c.token()).
			Send()
		if err != nil {
			return err
		}
		if err := resp.Throw(); err != nil {
			return err
		}
		return resp.JSON(dest)
	})
	if err != nil {
		return nil, fmt.Errorf("api: products page %d: %w", page, err)
	}
	return &out, nil
}

// Product returns a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (*models.Product, error) {
	var out models.Product
	key := "product:" + strconv.FormatInt(id, 10)
	err := querycache.Remember(key, catalogTTL, &out, func(dest interface{}) error {
		resp, err := httpclient.Get(c.url("/products/" + strconv.FormatInt(id, 10))).
			WithContext(ctx).
			Timeout(requestTimeout).
			Bearer(c.token()).
			Send()
		if err != nil {
			return err
		}
		if err := resp.Throw(); err != nil {
			return err
		}
		return resp.JSON(dest)
	})
	if err != nil {
		return nil, fmt.Errorf("api: product %d: %w", id, err)
	}
	return &out, nil
}

// Categories returns all product categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := querycache.Remember("categories", catalogTTL, &out, func(dest interface{}) error {
		resp, err := httpclient.Get(c.url("/categories")).
			WithContext(ctx).
			Timeout(requestTimeout).
			Bearer(c.token()).
			Send()
		if err != nil {
			return err
		}
		if err := resp.Throw(); err != nil {
			return err
		}
		return resp.JSON(dest)
	})
	if err != nil {
		return nil, fmt.Errorf("api: categories: %w", err)
	}
	return out, nil
}

// ForgetCatalog drops the cached catalogue pages and category list. Called
// after admin mutations so the console never shows its own stale edit.
func ForgetCatalog() {
	keys := []string{"categories"}
	for p := 1; p <= 50; p++ {
		keys = append(keys, "products:"+strconv.Itoa(p))
	}
	if err := querycache.Forget(keys...); err != nil {
		logger.Warn("api: forget catalog cache", "error", err)
	}
}

// ForgetProduct drops one cached product record. Page and category caches are
// handled by ForgetCatalog; this covers the per-id entry that `cart add` and
// `catalog show` read.
func ForgetProduct(id int64) {
	if err := querycache.Forget("product:" + strconv.FormatInt(id, 10)); err != nil {
		logger.Warn("api: forget product cache", "error", err, "id", id)
	}
}
