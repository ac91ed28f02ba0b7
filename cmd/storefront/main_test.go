package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-backend/internal/apiclient"
	"github.com/georgemunganga/storefront-backend/internal/config"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/server"
)

type harness struct {
	t     *testing.T
	api   string
	state string
	in    string
}

func newHarness(t *testing.T) (*harness, *catalog.Product) {
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
	_, err = srv.Users.EnsureAdmin(context.Background(), "admin@storefront.test", "admin-secret")
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	admin, err := apiclient.New(ts.URL)
	require.NoError(t, err)
	sess, err := admin.Login(context.Background(), "admin@storefront.test", "admin-secret")
	require.NoError(t, err)
	admin.SetToken(sess.Token)
	name, description, supplier := "Camisa Oxford", "Camisa de algodón", "Textiles Andinos"
	price, stock, category, sku := 200.0, 40, "camisas", "CAM-001"
	shirt, err := admin.CreateProduct(context.Background(), catalog.ProductInput{
		Name: &name, Description: &description, Price: &price, Stock: &stock,
		Category: &category, SKU: &sku, Supplier: &supplier,
	})
	require.NoError(t, err)

	return &harness{t: t, api: ts.URL, state: t.TempDir()}, shirt
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(h.in)
	full := append([]string{"storefront", "--api", h.api, "--state-dir", h.state}, args...)
	err := app.Run(full)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestWholesalerCheckout(t *testing.T) {
	h, shirt := newHarness(t)

	out := h.mustRun("register", "--company", "Mayorista SRL", "--contact", "Ana",
		"--email", "ana@mayorista.test", "--password", "secret1",
		"--tax-id", "123", "--phone", "555", "--type", "wholesaler")
	assert.Contains(t, out, "logged in as ana@mayorista.test (wholesaler)")

	out = h.mustRun("products")
	assert.Contains(t, out, "Camisa Oxford")
	assert.Contains(t, out, "10+ units")

	h.mustRun("cart", "add", "--qty", "10", shirt.ID)
	out = h.mustRun("cart", "add", "--qty", "2", shirt.ID)
	assert.Contains(t, out, "1920.00")

	out = h.mustRun("checkout", "--street", "Av. 6 de Agosto", "--city", "La Paz",
		"--state", "LP", "--zip", "0000", "--country", "BO")
	assert.Contains(t, out, "order ORD-000001 placed: 1920.00 (pending)")

	out = h.mustRun("cart", "show")
	assert.Contains(t, out, "cart is empty")

	out = h.mustRun("orders")
	assert.Contains(t, out, "ORD-000001")
}

func TestLogoutKeepsCart(t *testing.T) {
	h, shirt := newHarness(t)
	h.mustRun("login", "--email", "admin@storefront.test", "--password", "admin-secret")
	h.mustRun("cart", "add", "--qty", "3", shirt.ID)
	h.mustRun("favorites", "toggle", shirt.ID)

	assert.Contains(t, h.mustRun("logout"), "logged out")

	out := h.mustRun("cart", "show")
	assert.Contains(t, out, "600.00")
	assert.Contains(t, h.mustRun("favorites", "list"), shirt.ID)

	_, err := h.run("whoami")
	assert.ErrorContains(t, err, "not logged in")
}

func TestAdminCommandsAreGated(t *testing.T) {
	h, shirt := newHarness(t)
	h.mustRun("register", "--company", "Tienda", "--contact", "Luis",
		"--email", "luis@tienda.test", "--password", "secret1", "--tax-id", "9", "--phone", "1")

	_, err := h.run("admin", "summary")
	assert.ErrorContains(t, err, "retailer accounts cannot do that")
	_, err = h.run("admin", "delete", "--yes", shirt.ID)
	assert.Error(t, err)
}

func TestCorruptCartIsReset(t *testing.T) {
	h, shirt := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.state, "shoppingCart.json"), []byte("{oops"), 0o600))

	out := h.mustRun("cart", "show")
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, "cart is empty")

	out = h.mustRun("cart", "add", "--qty", "2", shirt.ID)
	assert.Contains(t, out, "400.00")
}

func TestAdminInventory(t *testing.T) {
	h, shirt := newHarness(t)
	h.mustRun("login", "--email", "admin@storefront.test", "--password", "admin-secret")

	out := h.mustRun("admin", "stock", "--", shirt.ID, "-35")
	assert.Contains(t, out, "stock is now 5 (low)")

	out = h.mustRun("admin", "summary")
	assert.Contains(t, out, "low stock: 1")

	h.in = "n\n"
	assert.Contains(t, h.mustRun("admin", "delete", shirt.ID), "aborted")

	h.in = "y\n"
	assert.Contains(t, h.mustRun("admin", "delete", shirt.ID), "product deleted")
}
