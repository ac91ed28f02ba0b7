package auth

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
	"github.com/georgemunganga/storefront-backend/internal/monitoring"
)

type service struct {
	users  user.Service
	tokens *TokenService
}

// NewService creates a new auth service.
func NewService(users user.Service, tokens *TokenService) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Register(ctx context.Context, req user.RegisterRequest) (sess *Session, err error) {
	ctx, span := monitoring.StartSpan(ctx, "auth.Register")
	defer func() {
		monitoring.RecordSpanError(span, err)
		monitoring.RecordAuthAttempt("register", err)
		span.End()
	}()

	if role, ok := access.ParseRole(req.UserType); ok && role == access.RoleAdmin {
		return nil, apperr.Forbidden("admin accounts cannot be self-registered")
	}
	u, err := s.users.RegisterUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *service) Login(ctx context.Context, email, password string) (sess *Session, err error) {
	ctx, span := monitoring.StartSpan(ctx, "auth.Login")
	defer func() {
		monitoring.RecordSpanError(span, err)
		monitoring.RecordAuthAttempt("login", err)
		span.End()
	}()

	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.role", string(u.Role)))
	return s.session(u)
}

func (s *service) Me(ctx context.Context, userID string) (*user.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *service) session(u *user.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}
