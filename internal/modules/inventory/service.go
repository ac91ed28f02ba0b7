package inventory

import (
	"context"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/monitoring"
)

// Service defines admin inventory operations.
type Service interface {
	// AdjustStock adds delta to a product's stock. The result never drops
	// below zero.
	AdjustStock(ctx context.Context, productID string, delta int) (*catalog.Product, error)
	Summary(ctx context.Context) (*Summary, error)
}

type service struct{ products ProductStore }

func NewService(products ProductStore) Service { return &service{products: products} }

func (s *service) AdjustStock(ctx context.Context, productID string, delta int) (p *catalog.Product, err error) {
	ctx, span := monitoring.StartSpan(ctx, "inventory.AdjustStock",
		attribute.String("product.id", productID), attribute.Int("stock.delta", delta))
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()

	if delta == 0 {
		return nil, apperr.Validation("delta must not be zero")
	}
	if delta > MaxStockDelta || delta < -MaxStockDelta {
		return nil, apperr.Validation("delta must be between %d and %d", -MaxStockDelta, MaxStockDelta)
	}
	p, err = s.products.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	logr.FromContextOrDiscard(ctx).Info("stock adjusted",
		"product_id", productID, "delta", delta, "stock", p.Stock)
	return p, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	products, err := s.products.ListProducts(ctx, catalog.Filter{})
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		TotalProducts:    len(products),
		LowStockProducts: []*catalog.Product{},
	}
	for _, p := range products {
		if p.IsActive {
			sum.ActiveProducts++
		}
		switch LevelOf(p.Stock) {
		case LevelOutOfStock:
			sum.OutOfStock++
		case LevelLow:
			sum.LowStock++
			if len(sum.LowStockProducts) < maxLowStockListed {
				sum.LowStockProducts = append(sum.LowStockProducts, p)
			}
		}
	}
	return sum, nil
}
