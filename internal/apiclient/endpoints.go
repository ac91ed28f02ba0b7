package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/georgemunganga/storefront-backend/internal/modules/auth"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/inventory"
	"github.com/georgemunganga/storefront-backend/internal/modules/order"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

// Health is the body of GET /api/health.
type Health struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type message struct {
	Message string `json:"message"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Register creates an account and returns its session. The client's token
// is not changed; callers decide whether to keep the session.
func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*auth.Session, error) {
	var s auth.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	var s auth.Session
	req := auth.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context, userType string) ([]*user.User, error) {
	q := url.Values{}
	if userType != "" {
		q.Set("userType", userType)
	}
	var users []*user.User
	if err := c.do(ctx, http.MethodGet, "/api/users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil, &message{})
}

// ProductQuery narrows ListProducts. Zero values are omitted.
type ProductQuery struct {
	Category string
	Search   string
	Active   *bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]*catalog.Product, error) {
	var products []*catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", q.values(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*catalog.Product, error) {
	var p catalog.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil, &message{})
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]*catalog.Product, error) {
	var products []*catalog.Product
	path := "/api/categories/" + url.PathEscape(category) + "/products"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// OrderQuery narrows ListOrders. UserID is honoured for admins only.
type OrderQuery struct {
	Status string
	UserID string
}

func (c *Client) ListOrders(ctx context.Context, q OrderQuery) ([]*order.Order, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	var orders []*order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", v, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, req order.UpdateRequest) (*order.Order, error) {
	var o order.Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id), nil, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(id), nil, nil, &message{})
}

// AdjustStock adds delta (which may be negative) to a product's stock.
func (c *Client) AdjustStock(ctx context.Context, productID string, delta int) (*catalog.Product, error) {
	var p catalog.Product
	path := "/api/inventory/products/" + url.PathEscape(productID) + "/stock"
	if err := c.do(ctx, http.MethodPatch, path, nil, inventory.StockAdjustment{Delta: &delta}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) InventorySummary(ctx context.Context) (*inventory.Summary, error) {
	var s inventory.Summary
	if err := c.do(ctx, http.MethodGet, "/api/inventory/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
