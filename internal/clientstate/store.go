// Package clientstate is the storefront client's local state: cart,
// favorites and the signed-in session. Every mutation is persisted before
// it returns.
package clientstate

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/pricing"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

// CartItem is a product snapshot and the quantity wanted.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Session is the signed-in user.
type Session struct {
	Token string
	User  *user.User
}

// Store holds client state. It is safe for concurrent use, though the CLI
// only has one writer.
type Store struct {
	mu        sync.Mutex
	persist   Persister
	cart      []CartItem
	favorites []string
	token     string
	user      *user.User
}

// Load restores state from p and repairs anything inconsistent: lines with
// a non-positive quantity are dropped, repeated products are merged,
// favorites are de-duplicated and a user without a token is signed out.
// A key that cannot be read is logged and starts empty.
func Load(p Persister, log logr.Logger) (*Store, error) {
	s := &Store{persist: p}

	cart := loadKey[[]CartItem](p, log, KeyCart)
	favorites := loadKey[[]string](p, log, KeyFavorites)
	token := loadKey[string](p, log, KeyToken)
	u := loadKey[*user.User](p, log, KeyUser)

	s.cart = reconcileCart(cart)
	s.favorites = dedupe(favorites)
	if token != "" && u != nil {
		s.token, s.user = token, u
	}

	if err := s.persist.Save(KeyCart, s.cart); err != nil {
		return nil, err
	}
	if err := s.persist.Save(KeyFavorites, s.favorites); err != nil {
		return nil, err
	}
	if err := s.saveSession(s.token, s.user); err != nil {
		return nil, err
	}
	return s, nil
}

func loadKey[T any](p Persister, log logr.Logger, key string) T {
	var v T
	if _, err := p.Load(key, &v); err != nil {
		log.Error(err, "discarding unreadable client state", "key", key)
		var zero T
		return zero
	}
	return v
}

func reconcileCart(items []CartItem) []CartItem {
	out := []CartItem{}
	index := make(map[string]int)
	for _, it := range items {
		if it.Quantity <= 0 || it.Product.ID == "" {
			continue
		}
		if i, ok := index[it.Product.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func dedupe(ids []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *Store) saveSession(token string, u *user.User) error {
	if token == "" {
		if err := s.persist.Delete(KeyToken); err != nil {
			return err
		}
		return s.persist.Delete(KeyUser)
	}
	if err := s.persist.Save(KeyToken, token); err != nil {
		return err
	}
	return s.persist.Save(KeyUser, u)
}

// commitCart persists next and only then makes it the cart, so a failed
// save leaves the store matching what is on disk.
func (s *Store) commitCart(next []CartItem) error {
	if err := s.persist.Save(KeyCart, next); err != nil {
		return err
	}
	s.cart = next
	return nil
}

func (s *Store) commitFavorites(next []string) error {
	if err := s.persist.Save(KeyFavorites, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

func (s *Store) find(productID string) int {
	for i, it := range s.cart {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) cartCopy() []CartItem {
	return append([]CartItem{}, s.cart...)
}

func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// AddToCart adds quantity units of p, increasing an existing line.
func (s *Store) AddToCart(p catalog.Product, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cartCopy()
	if i := s.find(p.ID); i >= 0 {
		next[i].Quantity += quantity
		next[i].Product = p
	} else {
		next = append(next, CartItem{Product: p, Quantity: quantity})
	}
	return s.commitCart(next)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line.
func (s *Store) SetQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(productID)
	if i < 0 {
		return apperr.NotFound("product %s is not in the cart", productID)
	}
	if quantity <= 0 {
		return s.commitCart(without(s.cart, i))
	}
	next := s.cartCopy()
	next[i].Quantity = quantity
	return s.commitCart(next)
}

// RemoveFromCart drops the line for productID, if any.
func (s *Store) RemoveFromCart(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(productID)
	if i < 0 {
		return nil
	}
	return s.commitCart(without(s.cart, i))
}

func (s *Store) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitCart([]CartItem{})
}

// ToggleFavorite adds productID to favorites, or removes it when present.
// It reports whether the product is now a favorite.
func (s *Store) ToggleFavorite(productID string) (bool, error) {
	if productID == "" {
		return false, apperr.Validation("product id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.favorites {
		if id == productID {
			return false, s.commitFavorites(without(s.favorites, i))
		}
	}
	next := append(append([]string{}, s.favorites...), productID)
	if err := s.commitFavorites(next); err != nil {
		return false, err
	}
	return true, nil
}

// SetSession signs u in with token.
func (s *Store) SetSession(token string, u *user.User) error {
	if token == "" || u == nil {
		return fmt.Errorf("session needs a token and a user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveSession(token, u); err != nil {
		return err
	}
	s.token, s.user = token, u
	return nil
}

// ClearSession signs out. The cart and favorites are kept.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveSession("", nil); err != nil {
		return err
	}
	s.token, s.user = "", nil
	return nil
}

// Session returns the current session, if signed in.
func (s *Store) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return Session{}, false
	}
	u := *s.user
	return Session{Token: s.token, User: &u}, true
}

// role is the pricing role of the current user. Signed-out shoppers pay
// retail.
func (s *Store) role() access.Role {
	if s.user == nil {
		return access.RoleRetailer
	}
	return s.user.Role
}

// Cart returns a copy of the cart lines.
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartItem{}, s.cart...)
}

// Favorites returns a copy of the favorite product ids.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.favorites...)
}

// IsFavorite reports whether productID is a favorite.
func (s *Store) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.favorites {
		if id == productID {
			return true
		}
	}
	return false
}

func (s *Store) lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(s.cart))
	for _, it := range s.cart {
		lines = append(lines, pricing.Line{BasePrice: it.Product.Price, Quantity: it.Quantity})
	}
	return lines
}

// Total is the cart total at the current user's prices.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Total(s.lines(), s.role())
}

// ItemCount is the number of units in the cart.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.ItemCount(s.lines())
}

// QuotePrice is the unit price shown for p: the tier is chosen by the
// quantity already in the cart, or 1 when p is not in the cart.
func (s *Store) QuotePrice(p catalog.Product) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	qty := 1
	if i := s.find(p.ID); i >= 0 {
		qty = s.cart[i].Quantity
	}
	return pricing.UnitPrice(p.Price, qty, s.role())
}

// LineTotal is the priced total of one cart line.
func (s *Store) LineTotal(it CartItem) float64 {
	s.mu.Lock()
	role := s.role()
	s.mu.Unlock()
	total, _ := pricing.LineTotal(pricing.Line{BasePrice: it.Product.Price, Quantity: it.Quantity}, role).Float64()
	return total
}
