package inventory

import (
	"context"

	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
)

// ProductStore is the slice of the catalog that stock operations need.
// catalog.Service satisfies it.
type ProductStore interface {
	AdjustStock(ctx context.Context, id string, delta int) (*catalog.Product, error)
	ListProducts(ctx context.Context, f catalog.Filter) ([]*catalog.Product, error)
}
