package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

func newTestServices() (Service, user.Service, *TokenService) {
	users := user.NewService(user.NewMemoryRepository(), user.NewHasher(bcrypt.MinCost, 4))
	tokens := NewTokenService("test-secret", time.Hour, nil)
	return NewService(users, tokens), users, tokens
}

func registerRequest(email, role string) user.RegisterRequest {
	return user.RegisterRequest{
		CompanyName: "Comercial Norte",
		ContactName: "Marta",
		Email:       email,
		Password:    "secret123",
		TaxID:       "NIT-42",
		Phone:       "70000000",
		UserType:    role,
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _, tokens := newTestServices()

	sess, err := svc.Register(context.Background(), registerRequest("Marta@Example.com", "wholesaler"))
	require.NoError(t, err)
	assert.Equal(t, "marta@example.com", sess.User.Email)

	claims, err := tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, access.RoleWholesaler, claims.Role)
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	svc, _, _ := newTestServices()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("boss@example.com", "Admin"))
	assert.True(t, errors.Is(err, apperr.ErrForbidden), "got %v", err)

	_, err = svc.Register(ctx, registerRequest("dup@example.com", ""))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("DUP@example.com", ""))
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _, _ := newTestServices()
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest("known@example.com", "retailer"))
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "known@example.com", "bad-password")
	_, unknownEmail := svc.Login(ctx, "ghost@example.com", "secret123")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(unknownEmail))

	sess, err := svc.Login(ctx, "known@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestServices()
	ctx := context.Background()
	sess, err := svc.Register(ctx, registerRequest("me@example.com", ""))
	require.NoError(t, err)

	u, err := svc.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", u.Email)

	_, err = svc.Me(ctx, "gone")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
