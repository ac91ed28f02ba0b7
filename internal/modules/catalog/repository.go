package catalog

import "context"

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f Filter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock adds delta to the product's stock, clamping at zero, and
	// returns the updated product. The read and write happen atomically.
	AdjustStock(ctx context.Context, id string, delta int) (*Product, error)
	// Categories returns the distinct category values, sorted.
	Categories(ctx context.Context) ([]string, error)
}
