package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// NextOrderNumber atomically reserves the next order sequence value,
	// starting at 1.
	NextOrderNumber(ctx context.Context) (int64, error)

	// Create persists a new order and its items atomically.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List returns matching orders, newest first.
	List(ctx context.Context, f Filter) ([]*Order, error)

	// Update stores the order's status, shipping address and updatedAt.
	Update(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id string) error
}
