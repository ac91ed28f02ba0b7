package order

import (
	"context"
	"sort"
	"sync"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
)

type memoryRepo struct {
	mu     sync.RWMutex
	seq    int64
	orders map[string]*Order
}

// NewMemoryRepository creates an in-process order repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{orders: make(map[string]*Order)}
}

func clone(o *Order) *Order {
	cp := *o
	cp.Items = append([]Item{}, o.Items...)
	return &cp
}

func (r *memoryRepo) NextOrderNumber(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *memoryRepo) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return apperr.DuplicateKey("order number %s already exists", o.OrderNumber)
		}
	}
	r.orders[o.ID] = clone(o)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("order not found")
	}
	return clone(o), nil
}

func (r *memoryRepo) List(_ context.Context, f Filter) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []*Order{}
	for _, o := range r.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		orders = append(orders, clone(o))
	}
	// Order numbers are sequential, so they break ties between equal dates.
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].OrderDate.After(orders[j].OrderDate)
		}
		return orders[i].OrderNumber > orders[j].OrderNumber
	})
	return orders, nil
}

func (r *memoryRepo) Update(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[o.ID]
	if !ok {
		return apperr.NotFound("order not found")
	}
	existing.Status = o.Status
	existing.ShippingAddress = o.ShippingAddress
	existing.UpdatedAt = o.UpdatedAt
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(r.orders, id)
	return nil
}
