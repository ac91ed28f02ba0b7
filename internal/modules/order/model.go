package order

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalises s into a known Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	_, ok := validTransitions[st]
	return st, ok
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	Street  string `json:"street" bson:"street" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	ZipCode string `json:"zipCode" bson:"zipCode" validate:"required"`
	Country string `json:"country" bson:"country" validate:"required"`
}

func (a *ShippingAddress) trim() {
	for _, f := range []*string{&a.Street, &a.City, &a.State, &a.ZipCode, &a.Country} {
		*f = strings.TrimSpace(*f)
	}
}

// Item is one order line. Name and UnitPrice are captured when the order is
// placed and do not follow later catalog changes.
type Item struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
}

// Order is a placed customer order.
type Order struct {
	ID              string          `json:"id" bson:"_id"`
	OrderNumber     string          `json:"orderNumber" bson:"orderNumber"`
	UserID          string          `json:"userId" bson:"userId"`
	Items           []Item          `json:"products" bson:"products"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalAmount"`
	Status          Status          `json:"status" bson:"status"`
	OrderDate       time.Time       `json:"orderDate" bson:"orderDate"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingAddress"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	UserID string
	Status Status
}

// LineRequest asks for quantity units of a product. Any price sent by the
// client is ignored.
type LineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	Products        []LineRequest   `json:"products" validate:"min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// UpdateRequest changes an order's status or shipping address. Line items
// cannot be edited after placement.
type UpdateRequest struct {
	Status          *string          `json:"status"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}
