package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
)

type memoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]*Product
	order []string // insertion order, oldest first
}

// NewMemoryRepository creates an in-process product repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{byID: make(map[string]*Product)}
}

func clone(p *Product) *Product {
	cp := *p
	cp.Sizes = append([]string{}, p.Sizes...)
	cp.Colors = append([]string{}, p.Colors...)
	cp.Images = append([]string{}, p.Images...)
	return &cp
}

func (r *memoryRepo) skuTaken(sku, exceptID string) bool {
	for id, p := range r.byID {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

func (r *memoryRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.skuTaken(p.SKU, "") {
		return duplicateSKU(p.SKU)
	}
	r.byID[p.ID] = clone(p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	return clone(p), nil
}

func containsFoldString(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *memoryRepo) List(_ context.Context, f Filter) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*Product{}
	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.byID[r.order[i]]
		if f.Category != "" && !containsFoldString(p.Category, f.Category) {
			continue
		}
		if f.Query != "" && !containsFoldString(p.Name, f.Query) {
			continue
		}
		if f.Active != nil && p.IsActive != *f.Active {
			continue
		}
		products = append(products, clone(p))
	}
	return products, nil
}

func (r *memoryRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	if r.skuTaken(p.SKU, p.ID) {
		return duplicateSKU(p.SKU)
	}
	r.byID[p.ID] = clone(p)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepo) AdjustStock(_ context.Context, id string, delta int) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	p.UpdatedAt = time.Now().UTC()
	return clone(p), nil
}

func (r *memoryRepo) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range r.byID {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}
