package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
)

func ptr[T any](v T) *T { return &v }

func shirtInput(sku string) ProductInput {
	return ProductInput{
		Name:        ptr("Camisa Polo"),
		Description: ptr("Polo de algodón"),
		Price:       ptr(200.0),
		Stock:       ptr(40),
		Category:    ptr("Ropa Deportiva"),
		SKU:         ptr(sku),
		Supplier:    ptr("Textiles Andinos"),
		Sizes:       ptr([]string{"S", " M ", ""}),
	}
}

func TestCreateProductDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	p, err := svc.CreateProduct(context.Background(), shirtInput("POLO-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.MinimumOrder)
	assert.True(t, p.IsActive)
	assert.Equal(t, GenderUnisex, p.Gender)
	assert.Equal(t, []string{"S", "M"}, p.Sizes)
	assert.Equal(t, []string{}, p.Images)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductInput)
		want   string
	}{
		{"missing price", func(in *ProductInput) { in.Price = nil }, "price is required"},
		{"negative price", func(in *ProductInput) { in.Price = ptr(-1.0) }, "price must be greater than or equal to 0"},
		{"negative stock", func(in *ProductInput) { in.Stock = ptr(-3) }, "stock must be greater than or equal to 0"},
		{"blank name", func(in *ProductInput) { in.Name = ptr("  ") }, "name is required"},
		{"zero minimum order", func(in *ProductInput) { in.MinimumOrder = ptr(0) }, "minimumOrder must be greater than or equal to 1"},
		{"bad gender", func(in *ProductInput) { in.Gender = ptr("kids") }, "gender must be one of [hombre mujer unisex]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := shirtInput("SKU-V")
			tt.mutate(&in)
			_, err := NewService(NewMemoryRepository()).CreateProduct(context.Background(), in)
			require.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	_, err := svc.CreateProduct(ctx, shirtInput("DUP"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, shirtInput("DUP"))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey), "got %v", err)

	other, err := svc.CreateProduct(ctx, shirtInput("OTHER"))
	require.NoError(t, err)
	_, err = svc.UpdateProduct(ctx, other.ID, ProductInput{SKU: ptr("DUP")})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey), "got %v", err)
}

func TestUpdateProductIsPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	p, err := svc.CreateProduct(ctx, shirtInput("PATCH"))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, ProductInput{Price: ptr(180.0), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 180.0, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Camisa Polo", updated.Name)

	_, err = svc.UpdateProduct(ctx, p.ID, ProductInput{Stock: ptr(-1)})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Stock)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	p, err := svc.CreateProduct(ctx, shirtInput("DEL"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProduct(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(svc.DeleteProduct(ctx, p.ID), apperr.ErrNotFound))
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	in := shirtInput("STOCK")
	in.Stock = ptr(1)
	p, err := svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	p, err = svc.AdjustStock(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, p.Stock)

	p, err = svc.AdjustStock(ctx, p.ID, -50)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	_, err = svc.AdjustStock(ctx, "missing", 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	for sku, cat := range map[string]string{"A": "Calzado", "B": "Ropa Deportiva", "C": "Calzado", "D": "Ropa (Niños)"} {
		in := shirtInput(sku)
		in.Category = ptr(cat)
		_, err := svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}
	hidden := shirtInput("E")
	hidden.IsActive = ptr(false)
	_, err := svc.CreateProduct(ctx, hidden)
	require.NoError(t, err)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Calzado", "Ropa (Niños)", "Ropa Deportiva"}, cats)

	ropa, err := svc.ListByCategory(ctx, "ropa")
	require.NoError(t, err)
	assert.Len(t, ropa, 2, "inactive products are excluded")

	// Metacharacters match literally.
	kids, err := svc.ListByCategory(ctx, "(niños)")
	require.NoError(t, err)
	assert.Len(t, kids, 1)

	_, err = svc.ListByCategory(ctx, " ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestListProductsFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	first, err := svc.CreateProduct(ctx, shirtInput("F1"))
	require.NoError(t, err)
	shoes := shirtInput("F2")
	shoes.Name = ptr("Zapatilla Runner")
	shoes.Category = ptr("Calzado")
	second, err := svc.CreateProduct(ctx, shoes)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	byName, err := svc.ListProducts(ctx, Filter{Query: "RUNNER"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, second.ID, byName[0].ID)

	inactive := false
	none, err := svc.ListProducts(ctx, Filter{Active: &inactive})
	require.NoError(t, err)
	assert.Empty(t, none)
}
