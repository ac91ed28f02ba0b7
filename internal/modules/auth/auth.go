package auth

import (
	"context"

	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

// Session is returned by register and login.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Register creates a wholesaler or retailer account and signs a token
	// for it. Admin accounts cannot be self-registered.
	Register(ctx context.Context, req user.RegisterRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Me returns the account behind an authenticated principal.
	Me(ctx context.Context, userID string) (*user.User, error)
}
