package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/pricing"
	"github.com/georgemunganga/storefront-backend/internal/monitoring"
	"github.com/georgemunganga/storefront-backend/internal/validation"
)

// ProductLookup resolves the authoritative product record for an order
// line. catalog.Service satisfies it.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder prices the requested lines from the catalog for the
	// caller's role and persists the order under the next order number.
	PlaceOrder(ctx context.Context, caller access.Principal, req PlaceOrderRequest) (*Order, error)

	// GetOrder returns an order. Callers without ViewAllOrders may only
	// read their own.
	GetOrder(ctx context.Context, caller access.Principal, id string) (*Order, error)

	// ListOrders returns orders visible to caller. The UserID filter is
	// forced to the caller's own id unless they hold ViewAllOrders.
	ListOrders(ctx context.Context, caller access.Principal, f Filter) ([]*Order, error)

	// UpdateOrder advances the status and/or replaces the shipping address.
	UpdateOrder(ctx context.Context, id string, req UpdateRequest) (*Order, error)

	DeleteOrder(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	products ProductLookup
	now      func() time.Time
}

// NewService creates a new order service.
func NewService(repo Repository, products ProductLookup) Service {
	return &service{repo: repo, products: products, now: time.Now}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// FormatOrderNumber renders sequence value n as ORD-NNNNNN.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("ORD-%06d", n)
}

// mergeLines sums the quantities of repeated products, keeping first-seen
// order, so the volume tier sees the full quantity.
func mergeLines(lines []LineRequest) []LineRequest {
	merged := make([]LineRequest, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

func (s *service) PlaceOrder(ctx context.Context, caller access.Principal, req PlaceOrderRequest) (o *Order, err error) {
	ctx, span := monitoring.StartSpan(ctx, "order.PlaceOrder",
		attribute.String("user.role", string(caller.Role)))
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()

	if !caller.Can(access.PlaceOrders) {
		return nil, apperr.Forbidden("insufficient permissions")
	}
	req.ShippingAddress.trim()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	lines := mergeLines(req.Products)
	items := make([]Item, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		p, err := s.products.GetProduct(ctx, l.ProductID)
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Validation("product %s does not exist", l.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, apperr.Validation("product %s is not available", p.Name)
		}
		if l.Quantity < p.MinimumOrder {
			return nil, apperr.Validation("%s requires a minimum order of %d", p.Name, p.MinimumOrder)
		}
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: pricing.UnitPrice(p.Price, l.Quantity, caller.Role),
		})
		priced = append(priced, pricing.Line{BasePrice: p.Price, Quantity: l.Quantity})
	}

	seq, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o = &Order{
		ID:              uuid.New().String(),
		OrderNumber:     FormatOrderNumber(seq),
		UserID:          caller.UserID,
		Items:           items,
		TotalAmount:     pricing.Total(priced, caller.Role),
		Status:          StatusPending,
		OrderDate:       now,
		ShippingAddress: req.ShippingAddress,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	monitoring.RecordOrderCreated()
	span.SetAttributes(attribute.String("order.number", o.OrderNumber))
	logr.FromContextOrDiscard(ctx).Info("order placed",
		"order_number", o.OrderNumber, "user_id", o.UserID, "total", o.TotalAmount)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, caller access.Principal, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Can(access.ViewAllOrders) && o.UserID != caller.UserID {
		return nil, apperr.Forbidden("you can only view your own orders")
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, caller access.Principal, f Filter) ([]*Order, error) {
	if !caller.Can(access.ViewAllOrders) {
		f.UserID = caller.UserID
	}
	return s.repo.List(ctx, f)
}

func (s *service) UpdateOrder(ctx context.Context, id string, req UpdateRequest) (*Order, error) {
	if req.Status == nil && req.ShippingAddress == nil {
		return nil, apperr.Validation("status or shippingAddress is required")
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Status != nil {
		next, ok := ParseStatus(*req.Status)
		if !ok {
			return nil, apperr.Validation("unknown status %q", *req.Status)
		}
		if next != o.Status {
			if !CanTransition(o.Status, next) {
				return nil, apperr.Validation("cannot transition order from %s to %s", o.Status, next)
			}
			o.Status = next
			changed = true
		}
	}
	if req.ShippingAddress != nil {
		if o.Status != StatusPending && o.Status != StatusConfirmed {
			return nil, apperr.Validation("shipping address cannot change once an order is %s", o.Status)
		}
		addr := *req.ShippingAddress
		addr.trim()
		if err := validation.Struct(addr); err != nil {
			return nil, err
		}
		if addr != o.ShippingAddress {
			o.ShippingAddress = addr
			changed = true
		}
	}
	if !changed {
		return o, nil
	}

	o.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	logr.FromContextOrDiscard(ctx).Info("order updated", "order_number", o.OrderNumber, "status", o.Status)
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
