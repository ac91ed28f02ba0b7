package access

import "context"

// Principal is the authenticated caller carried in a request context.
type Principal struct {
	UserID      string
	Email       string
	Role        Role
	CompanyName string
}

// Can reports whether the principal holds capability c.
func (p Principal) Can(c Capability) bool { return Allowed(p.Role, c) }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
