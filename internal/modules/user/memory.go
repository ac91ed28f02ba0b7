package user

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// NewMemoryRepository creates an in-process user repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepository) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return apperr.Conflict("email is already registered")
	}
	cp := *user
	cp.Email = email
	r.byID[cp.ID] = &cp
	r.byEmail[email] = cp.ID
	return nil
}

func (r *memoryRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *memoryRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepository) ListUsers(_ context.Context, f Filter) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []*User{}
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].RegistrationDate.After(users[j].RegistrationDate)
	})
	return users, nil
}

func (r *memoryRepository) UpdateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[user.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.CompanyName = user.CompanyName
	u.ContactName = user.ContactName
	u.TaxID = user.TaxID
	u.Phone = user.Phone
	return nil
}

func (r *memoryRepository) DeleteUser(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
