package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

var (
	ErrTokenExpired = apperr.Unauthorized("token expired")
	ErrTokenInvalid = apperr.Unauthorized("invalid token")
)

// Claims is the signed token payload.
type Claims struct {
	UserID      string      `json:"userId"`
	Email       string      `json:"email"`
	Role        access.Role `json:"userType"`
	CompanyName string      `json:"companyName"`
	jwt.StandardClaims
}

// Principal converts the claims into the caller identity used by handlers.
func (c *Claims) Principal() access.Principal {
	return access.Principal{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        c.Role,
		CompanyName: c.CompanyName,
	}
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService returns a TokenService. A nil now uses time.Now.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		key: []byte(secret),
		ttl: ttl,
		now: now,
		// Expiry is checked against s.now rather than the package clock.
		parser: &jwt.Parser{
			ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
			SkipClaimsValidation: true,
		},
	}
}

// Issue signs a token for u.
func (s *TokenService) Issue(u *user.User) (string, error) {
	issuedAt := s.now()
	claims := &Claims{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        u.Role,
		CompanyName: u.CompanyName,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", apperr.Internal(err, "sign token")
	}
	return tokenString, nil
}

// Verify parses tokenString and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, ErrTokenExpired
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
