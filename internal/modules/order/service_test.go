package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
)

var (
	wholesaler = access.Principal{UserID: "u-wholesale", Role: access.RoleWholesaler}
	retailer   = access.Principal{UserID: "u-retail", Role: access.RoleRetailer}
	admin      = access.Principal{UserID: "u-admin", Role: access.RoleAdmin}
)

// fakeProducts is a hand-written ProductLookup.
type fakeProducts map[string]*catalog.Product

func (f fakeProducts) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	cp := *p
	return &cp, nil
}

func newFixture() (Service, fakeProducts) {
	products := fakeProducts{
		"p-shirt":  {ID: "p-shirt", Name: "Camisa", Price: 200, MinimumOrder: 1, IsActive: true},
		"p-cap":    {ID: "p-cap", Name: "Gorra", Price: 45, MinimumOrder: 1, IsActive: true},
		"p-old":    {ID: "p-old", Name: "Chaleco", Price: 90, MinimumOrder: 1, IsActive: false},
		"p-bundle": {ID: "p-bundle", Name: "Pack medias", Price: 30, MinimumOrder: 6, IsActive: true},
	}
	return NewService(NewMemoryRepository(), products), products
}

var address = ShippingAddress{
	Street: "Av. Arce 123", City: "La Paz", State: "LP", ZipCode: "0000", Country: "Bolivia",
}

func request(lines ...LineRequest) PlaceOrderRequest {
	return PlaceOrderRequest{Products: lines, ShippingAddress: address}
}

func TestOrderNumbersAreSequential(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)

	assert.Equal(t, "ORD-000001", first.OrderNumber)
	assert.Equal(t, "ORD-000002", second.OrderNumber)
	assert.Equal(t, StatusPending, first.Status)
}

func TestOrderNumbersUniqueUnderConcurrency(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	const n = 50
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
			if assert.NoError(t, err) {
				numbers <- o.OrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for num := range numbers {
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestPlaceOrderRecomputesPrices(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, wholesaler, request(LineRequest{ProductID: "p-shirt", Quantity: 12}))
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 160.0, o.Items[0].UnitPrice)
	assert.Equal(t, "Camisa", o.Items[0].Name)
	assert.Equal(t, 1920.0, o.TotalAmount)
	assert.Equal(t, wholesaler.UserID, o.UserID)

	o, err = svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-shirt", Quantity: 12}))
	require.NoError(t, err)
	assert.Equal(t, 2400.0, o.TotalAmount)
}

func TestPlaceOrderMergesRepeatedLines(t *testing.T) {
	svc, _ := newFixture()
	o, err := svc.PlaceOrder(context.Background(), wholesaler, request(
		LineRequest{ProductID: "p-cap", Quantity: 3},
		LineRequest{ProductID: "p-shirt", Quantity: 1},
		LineRequest{ProductID: "p-cap", Quantity: 2},
	))
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "p-cap", o.Items[0].ProductID)
	assert.Equal(t, 5, o.Items[0].Quantity)
	assert.Equal(t, 38.0, o.Items[0].UnitPrice) // 45 * 0.85 = 38.25
	assert.Equal(t, 5*38.0+200, o.TotalAmount)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  PlaceOrderRequest
		want string
	}{
		{"no lines", request(), "products must contain at least 1"},
		{"zero quantity", request(LineRequest{ProductID: "p-cap"}), "quantity must be greater than or equal to 1"},
		{"unknown product", request(LineRequest{ProductID: "nope", Quantity: 1}), "product nope does not exist"},
		{"inactive product", request(LineRequest{ProductID: "p-old", Quantity: 1}), "Chaleco is not available"},
		{"below minimum", request(LineRequest{ProductID: "p-bundle", Quantity: 2}), "minimum order of 6"},
		{"missing address", PlaceOrderRequest{Products: []LineRequest{{ProductID: "p-cap", Quantity: 1}}},
			"shippingAddress.street is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, retailer, tt.req)
			require.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOrderVisibility(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	mine, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, wholesaler, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, wholesaler, mine.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	got, err := svc.GetOrder(ctx, admin, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.OrderNumber, got.OrderNumber)

	own, err := svc.ListOrders(ctx, retailer, Filter{UserID: wholesaler.UserID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := svc.ListOrders(ctx, admin, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "ORD-000002", all[0].OrderNumber, "newest first")
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateOrder(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()
	o, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)

	status := func(s string) UpdateRequest { return UpdateRequest{Status: &s} }

	_, err = svc.UpdateOrder(ctx, o.ID, status("shipped"))
	assert.True(t, errors.Is(err, apperr.ErrValidation), "pending cannot ship")

	same, err := svc.UpdateOrder(ctx, o.ID, status("PENDING"))
	require.NoError(t, err)
	assert.Equal(t, o.UpdatedAt, same.UpdatedAt, "same status is a no-op")

	moved := ShippingAddress{Street: "Calle 2", City: "El Alto", State: "LP", ZipCode: "1", Country: "Bolivia"}
	updated, err := svc.UpdateOrder(ctx, o.ID, UpdateRequest{ShippingAddress: &moved})
	require.NoError(t, err)
	assert.Equal(t, "El Alto", updated.ShippingAddress.City)

	for _, s := range []string{"confirmed", "shipped", "delivered"} {
		updated, err = svc.UpdateOrder(ctx, o.ID, status(s))
		require.NoError(t, err, s)
	}
	assert.Equal(t, StatusDelivered, updated.Status)
	assert.Equal(t, "ORD-000001", updated.OrderNumber, "number never changes")

	_, err = svc.UpdateOrder(ctx, o.ID, UpdateRequest{ShippingAddress: &address})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.UpdateOrder(ctx, o.ID, status("teleported"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = svc.UpdateOrder(ctx, o.ID, UpdateRequest{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeleteOrder(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	assert.True(t, errors.Is(svc.DeleteOrder(ctx, "missing"), apperr.ErrNotFound))

	o, err := svc.PlaceOrder(ctx, retailer, request(LineRequest{ProductID: "p-cap", Quantity: 1}))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrder(ctx, o.ID))
	_, err = svc.GetOrder(ctx, admin, o.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
