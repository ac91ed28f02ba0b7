package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
)

func seedProduct(t *testing.T, cat catalog.Service, sku string, stock int, active bool) *catalog.Product {
	t.Helper()
	name, desc, category, supplier := "Gorra "+sku, "Gorra bordada", "Accesorios", "Andes"
	price := 50.0
	p, err := cat.CreateProduct(context.Background(), catalog.ProductInput{
		Name: &name, Description: &desc, Price: &price, Stock: &stock,
		Category: &category, SKU: &sku, Supplier: &supplier, IsActive: &active,
	})
	require.NoError(t, err)
	return p
}

func TestLevelOf(t *testing.T) {
	assert.Equal(t, LevelOutOfStock, LevelOf(0))
	assert.Equal(t, LevelLow, LevelOf(1))
	assert.Equal(t, LevelLow, LevelOf(9))
	assert.Equal(t, LevelOK, LevelOf(10))
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewService(catalog.NewMemoryRepository())
	svc := NewService(cat)
	p := seedProduct(t, cat, "G1", 2, true)

	for _, tt := range []struct {
		delta int
		want  int
	}{{10, 12}, {1, 13}, {-1, 12}, {-100, 0}} {
		got, err := svc.AdjustStock(ctx, p.ID, tt.delta)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Stock, "delta %d", tt.delta)
	}

	_, err := svc.AdjustStock(ctx, p.ID, 0)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.AdjustStock(ctx, "missing", 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAdjustStockRejectsOversizedDelta(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewService(catalog.NewMemoryRepository())
	svc := NewService(cat)
	p := seedProduct(t, cat, "G2", 7, true)

	for _, delta := range []int{MaxStockDelta + 1, -MaxStockDelta - 1, math.MaxInt, math.MinInt} {
		_, err := svc.AdjustStock(ctx, p.ID, delta)
		assert.True(t, errors.Is(err, apperr.ErrValidation), "delta %d", delta)
	}

	got, err := svc.AdjustStock(ctx, p.ID, MaxStockDelta)
	require.NoError(t, err)
	assert.Equal(t, MaxStockDelta+7, got.Stock)

	got, err = svc.AdjustStock(ctx, p.ID, -MaxStockDelta)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	cat := catalog.NewService(catalog.NewMemoryRepository())
	seedProduct(t, cat, "OUT", 0, true)
	seedProduct(t, cat, "OFF", 50, false)
	for i := 0; i < 7; i++ {
		seedProduct(t, cat, fmt.Sprintf("LOW-%d", i), i+1, true)
	}

	sum, err := NewService(cat).Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, sum.TotalProducts)
	assert.Equal(t, 8, sum.ActiveProducts)
	assert.Equal(t, 1, sum.OutOfStock)
	assert.Equal(t, 7, sum.LowStock)
	assert.Len(t, sum.LowStockProducts, 5)
}

type adminGate struct{}

func (adminGate) Require(c access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Role") != string(access.RoleAdmin) || !access.Allowed(access.RoleAdmin, c) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func TestHandler(t *testing.T) {
	cat := catalog.NewService(catalog.NewMemoryRepository())
	p := seedProduct(t, cat, "H1", 5, true)
	r := chi.NewRouter()
	NewHandler(NewService(cat), adminGate{}, httpx.ErrorWriter{}).RegisterRoutes(r)

	patch := func(role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/inventory/products/"+p.ID+"/stock", strings.NewReader(body))
		req.Header.Set("X-Role", role)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, patch("wholesaler", `{"delta":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch("admin", `{}`).Code)

	rec := patch("admin", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock":4`)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/summary", nil)
	req.Header.Set("X-Role", "admin")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lowStock":1`)
}
