package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/config"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/order"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
	"github.com/georgemunganga/storefront-backend/internal/server"
)

const (
	adminEmail    = "admin@storefront.test"
	adminPassword = "admin-secret"
)

func startAPI(t *testing.T) string {
	t.Helper()
	cfg := &config.Config{
		Env:             "development",
		StorageDriver:   config.DriverMemory,
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		BcryptCost:      4,
		HashConcurrency: 4,
		RequestTimeout:  5 * time.Second,
		CORSOrigins:     []string{"*"},
	}
	repos, closeRepos, err := server.OpenRepositories(context.Background(), cfg, logr.Discard())
	require.NoError(t, err)
	t.Cleanup(closeRepos)

	srv := server.New(cfg, logr.Discard(), repos)
	_, err = srv.Users.EnsureAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts.URL
}

func newClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := New(base)
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")
	assert.Error(t, err)
}

func TestCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	base := startAPI(t)

	health, err := newClient(t, base).Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)

	admin := newClient(t, base)
	sess, err := admin.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	admin.SetToken(sess.Token)

	shirt, err := admin.CreateProduct(ctx, catalog.ProductInput{
		Name:        ptr("Camisa Oxford"),
		Description: ptr("Camisa de algodón"),
		Price:       ptr(200.0),
		Stock:       ptr(40),
		Category:    ptr("camisas"),
		SKU:         ptr("CAM-001"),
		Supplier:    ptr("Textiles Andinos"),
	})
	require.NoError(t, err)

	categories, err := admin.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"camisas"}, categories)

	shopper := newClient(t, base)
	reg, err := shopper.Register(ctx, user.RegisterRequest{
		CompanyName: "Mayorista SRL",
		ContactName: "Ana",
		Email:       "ana@mayorista.test",
		Password:    "secret1",
		TaxID:       "123",
		Phone:       "555",
		UserType:    "wholesaler",
	})
	require.NoError(t, err)
	shopper.SetToken(reg.Token)

	me, err := shopper.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@mayorista.test", me.Email)

	products, err := shopper.ListProducts(ctx, ProductQuery{Search: "oxford"})
	require.NoError(t, err)
	require.Len(t, products, 1)

	placed, err := shopper.PlaceOrder(ctx, order.PlaceOrderRequest{
		Products: []order.LineRequest{{ProductID: shirt.ID, Quantity: 12}},
		ShippingAddress: order.ShippingAddress{
			Street: "Av. Siempre Viva 742", City: "La Paz", State: "LP", ZipCode: "0000", Country: "BO",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-000001", placed.OrderNumber)
	assert.Equal(t, 1920.0, placed.TotalAmount)

	mine, err := shopper.ListOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	updated, err := admin.UpdateOrder(ctx, placed.ID, order.UpdateRequest{Status: ptr("confirmed")})
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, updated.Status)

	stocked, err := admin.AdjustStock(ctx, shirt.ID, -35)
	require.NoError(t, err)
	assert.Equal(t, 5, stocked.Stock)

	summary, err := admin.InventorySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LowStock)

	require.NoError(t, admin.DeleteProduct(ctx, shirt.ID))
	_, err = admin.GetProduct(ctx, shirt.ID)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestErrorsAreDecoded(t *testing.T) {
	ctx := context.Background()
	base := startAPI(t)
	c := newClient(t, base)

	_, err := c.Login(ctx, adminEmail, "wrong")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Equal(t, apperr.KindUnauthorized, apiErr.Kind())

	_, err = c.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))

	_, err = c.InventorySummary(ctx)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestNonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL).Health(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Equal(t, apperr.KindInternal, apiErr.Kind())
}
