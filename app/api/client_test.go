package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
	"github.com/shashiranjanraj/bazario/pkg/querycache"
	"github.com/shashiranjanraj/bazario/pkg/testkit"
)

const base = "http://backend.test"

func newTestClient(token string) *Client {
	return New(base, func() string { return token })
}

func TestLogin(t *testing.T) {
	mt := testkit.NewMockTransport()
	stub := mt.Stub(http.MethodPost, "/auth/login", 200, models.AuthResult{
		AccessToken: "tok-1",
		Role:        "user",
		Username:    "ada",
		Email:       "ada@example.com",
	})
	defer testkit.Install(mt)()

	res, err := newTestClient("").Login(context.Background(), "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.AccessToken)
	assert.Equal(t, "ada", res.Username)
	testkit.AssertJSONBody(t, `{"username":"ada","password":"hunter2"}`, stub.LastBody())
}

func TestLoginBadCredentials(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodPost, "/auth/login", 422, map[string]string{"message": "invalid credentials"})
	defer testkit.Install(mt)()

	_, err := newTestClient("").Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestFetchCartMapsLineIDs(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodGet, "/cart", 200, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": 41, "product": map[string]interface{}{"id": 7, "name": "Mug", "price": 9.5}, "quantity": 2},
		},
	})
	defer testkit.Install(mt)()

	items, err := newTestClient("tok").FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "41", items[0].ID)
	assert.Equal(t, int64(7), items[0].Product.ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.False(t, items[0].Syncing)
}

func TestAddCartItemBody(t *testing.T) {
	mt := testkit.NewMockTransport()
	stub := mt.Stub(http.MethodPost, "/cart", 200, nil)
	defer testkit.Install(mt)()

	err := newTestClient("tok").AddCartItem(context.Background(), 7, 3)
	require.NoError(t, err)
	testkit.AssertJSONBody(t, `{"product_id":7,"quantity":3}`, stub.LastBody())
}

func TestRemoveCartItemNotFoundSurfacesMessage(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodDelete, "/cart/items/99", 404, map[string]string{"message": "item not found"})
	defer testkit.Install(mt)()

	err := newTestClient("tok").RemoveCartItem(context.Background(), "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item not found")
}

func TestUnauthorizedFiresHook(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodGet, "/cart", 401, map[string]string{"message": "token expired"})
	defer testkit.Install(mt)()

	fired := 0
	httpclient.SetUnauthorizedHook(func() { fired++ })
	defer httpclient.SetUnauthorizedHook(nil)

	_, err := newTestClient("stale-token").FetchCart(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, fired)
}

func TestUnauthorizedHookSkippedWithoutToken(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodPost, "/auth/login", 401, map[string]string{"message": "invalid credentials"})
	defer testkit.Install(mt)()

	fired := 0
	httpclient.SetUnauthorizedHook(func() { fired++ })
	defer httpclient.SetUnauthorizedHook(nil)

	_, err := newTestClient("").Login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.Equal(t, 0, fired)
}

func TestLogoutTreats401AsSuccess(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodPost, "/auth/logout", 401, map[string]string{"message": "token expired"})
	defer testkit.Install(mt)()

	httpclient.SetUnauthorizedHook(nil)
	err := newTestClient("stale-token").Logout(context.Background())
	assert.NoError(t, err)
}

func TestProductsCachesPage(t *testing.T) {
	querycache.Use(querycache.NewMemoryDriver())
	defer querycache.Use(querycache.NewMemoryDriver())

	mt := testkit.NewMockTransport()
	stub := mt.Stub(http.MethodGet, "/products", 200, models.ProductPage{
		Items:      []models.Product{{ID: 1, Name: "Mug", Price: 9.5}},
		Page:       1,
		TotalPages: 1,
	})
	defer testkit.Install(mt)()

	client := newTestClient("")
	first, err := client.Products(context.Background(), 1)
	require.NoError(t, err)
	second, err := client.Products(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, 1, stub.Calls())
}

func TestForgetCatalogInvalidates(t *testing.T) {
	querycache.Use(querycache.NewMemoryDriver())
	defer querycache.Use(querycache.NewMemoryDriver())

	mt := testkit.NewMockTransport()
	stub := mt.Stub(http.MethodGet, "/products", 200, models.ProductPage{Page: 1, TotalPages: 1})
	defer testkit.Install(mt)()

	client := newTestClient("")
	_, err := client.Products(context.Background(), 1)
	require.NoError(t, err)

	ForgetCatalog()

	_, err = client.Products(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.Calls())
}

func TestProductUpdateInvalidatesCachedProduct(t *testing.T) {
	querycache.Use(querycache.NewMemoryDriver())
	defer querycache.Use(querycache.NewMemoryDriver())

	mt := testkit.NewMockTransport()
	getStub := mt.Stub(http.MethodGet, "/products/7", 200, models.Product{ID: 7, Name: "Mug", Price: 9.5})
	mt.Stub(http.MethodPut, "/admin/products/7", 200, models.Product{ID: 7, Name: "Mug", Price: 12})
	defer testkit.Install(mt)()

	client := newTestClient("admin-tok")
	_, err := client.Product(context.Background(), 7)
	require.NoError(t, err)
	_, err = client.Product(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, getStub.Calls(), "second read must come from cache")

	_, err = client.UpdateProduct(context.Background(), 7, ProductInput{Name: "Mug", Price: 12, Stock: 5})
	require.NoError(t, err)

	got, err := client.Product(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, getStub.Calls(), "the update must drop the cached record")
	assert.Equal(t, 12.0, got.Price)
}

func TestPlaceOrderReturnsReference(t *testing.T) {
	mt := testkit.NewMockTransport()
	mt.Stub(http.MethodPost, "/orders", 200, map[string]interface{}{
		"order":             models.Order{ID: 12, Status: "pending", Total: 19.0, CreatedAt: time.Now().UTC()},
		"payment_reference": "pay-abc",
	})
	defer testkit.Install(mt)()

	order, ref, err := newTestClient("tok").PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), order.ID)
	assert.Equal(t, "pay-abc", ref)
}
