package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apperr"
	"github.com/georgemunganga/storefront-backend/internal/httpx"
)

// Gate is the bearer-token middleware placed in front of protected routes.
type Gate struct {
	tokens *TokenService
	errors httpx.ErrorWriter
}

func NewGate(tokens *TokenService, ew httpx.ErrorWriter) *Gate {
	return &Gate{tokens: tokens, errors: ew}
}

// Authenticate rejects requests without a valid token and stores the
// caller's principal in the request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			g.errors.Write(w, r, apperr.Unauthorized("access token required"))
			return
		}
		claims, err := g.tokens.Verify(tokenString)
		if err != nil {
			g.errors.Write(w, r, err)
			return
		}
		ctx := access.WithPrincipal(r.Context(), claims.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require authenticates the request and then admits only roles granted c.
func (g *Gate) Require(c access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := access.PrincipalFrom(r.Context())
			if !p.Can(c) {
				g.errors.Write(w, r, apperr.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
