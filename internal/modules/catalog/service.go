package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/validation"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, f Filter) ([]*Product, error)
	// UpdateProduct applies the non-nil fields of in and re-validates the
	// whole product.
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	// ListByCategory returns active products whose category contains name.
	ListByCategory(ctx context.Context, name string) ([]*Product, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service { return &service{repo: repo, now: time.Now} }

func trimmed(v *string) string { return strings.TrimSpace(*v) }

func trimAll(vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// apply copies the set fields of in onto p.
func (in ProductInput) apply(p *Product) {
	for _, f := range []struct {
		dst *string
		v   *string
	}{
		{&p.Name, in.Name},
		{&p.Description, in.Description},
		{&p.Category, in.Category},
		{&p.SKU, in.SKU},
		{&p.Supplier, in.Supplier},
		{&p.Brand, in.Brand},
		{&p.Material, in.Material},
	} {
		if f.v != nil {
			*f.dst = trimmed(f.v)
		}
	}
	if in.Gender != nil {
		p.Gender = strings.ToLower(trimmed(in.Gender))
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.MinimumOrder != nil {
		p.MinimumOrder = *in.MinimumOrder
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Sizes != nil {
		p.Sizes = trimAll(*in.Sizes)
	}
	if in.Colors != nil {
		p.Colors = trimAll(*in.Colors)
	}
	if in.Images != nil {
		p.Images = trimAll(*in.Images)
	}
}

func (s *service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if in.Price == nil {
		return nil, apperr.Validation("price is required")
	}
	now := s.now().UTC()
	p := &Product{
		ID:           uuid.New().String(),
		MinimumOrder: 1,
		IsActive:     true,
		Gender:       GenderUnisex,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	in.apply(p)
	if p.Gender == "" {
		p.Gender = GenderUnisex
	}
	p.normalize()
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logr.FromContextOrDiscard(ctx).Info("product created", "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, f Filter) ([]*Product, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}

func (s *service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	p.normalize()
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logr.FromContextOrDiscard(ctx).Info("product deleted", "product_id", id)
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id string, delta int) (*Product, error) {
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *service) ListByCategory(ctx context.Context, name string) ([]*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category is required")
	}
	active := true
	return s.repo.List(ctx, Filter{Category: name, Active: &active})
}
