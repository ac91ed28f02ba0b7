package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/validation"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser validates req, hashes the password and stores the user.
	RegisterUser(ctx context.Context, req RegisterRequest) (*User, error)
	// Authenticate checks credentials. Unknown emails and wrong passwords
	// return the same unauthorized error.
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, f Filter) ([]*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	// EnsureAdmin creates an admin account for email unless one exists.
	EnsureAdmin(ctx context.Context, email, password string) (created bool, err error)
}

// ErrInvalidCredentials is returned for every failed login.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

type service struct {
	repo   Repository
	hasher *Hasher
	now    func() time.Time
}

// NewService creates a new user service.
func NewService(repo Repository, hasher *Hasher) Service {
	return &service{repo: repo, hasher: hasher, now: time.Now}
}

func trim(req *RegisterRequest) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.TaxID = strings.TrimSpace(req.TaxID)
	req.Phone = strings.TrimSpace(req.Phone)
}

func (s *service) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	trim(&req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Password) > MaxPasswordBytes {
		return nil, apperr.Validation("password must be at most %d bytes", MaxPasswordBytes)
	}
	role, ok := access.ParseRole(req.UserType)
	if !ok {
		return nil, apperr.Validation("userType must be one of [admin wholesaler retailer]")
	}

	// Checked up front so the slow hash is skipped for taken emails; the
	// unique index still decides races.
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email is already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(ctx, req.Password)
	if errors.Is(err, apperr.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	user := &User{
		ID:               uuid.New().String(),
		CompanyName:      req.CompanyName,
		ContactName:      req.ContactName,
		Email:            req.Email,
		PasswordHash:     hashedPassword,
		TaxID:            req.TaxID,
		Phone:            req.Phone,
		Role:             role,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logr.FromContextOrDiscard(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		s.hasher.CompareDummy(ctx, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, apperr.Internal(err, "compare password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, f Filter) ([]*User, error) {
	return s.repo.ListUsers(ctx, f)
}

func (s *service) UpdateUser(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := []struct {
		dst   *string
		v     *string
		field string
	}{
		{&user.CompanyName, req.CompanyName, "companyName"},
		{&user.ContactName, req.ContactName, "contactName"},
		{&user.TaxID, req.TaxID, "taxId"},
		{&user.Phone, req.Phone, "phone"},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		v := strings.TrimSpace(*f.v)
		if v == "" {
			return nil, apperr.Validation("%s cannot be empty", f.field)
		}
		*f.dst = v
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.Role != access.RoleAdmin {
			return false, apperr.Conflict("%s is registered with role %s", existing.Email, existing.Role)
		}
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	_, err = s.RegisterUser(ctx, RegisterRequest{
		CompanyName: "Storefront",
		ContactName: "Administrator",
		Email:       email,
		Password:    password,
		TaxID:       "-",
		Phone:       "-",
		UserType:    string(access.RoleAdmin),
	})
	return err == nil, err
}
