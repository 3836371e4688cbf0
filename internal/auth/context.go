package auth

import "context"

type contextKey struct{}

var claimsKey = contextKey{}

// WithClaims attaches validated session claims to a request context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the session claims set by the auth
// middleware, or nil on an unauthenticated request.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// ActorFromContext names the acting admin for audit entries. Falls back
// to "unknown" when the request carried no session.
func ActorFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.Email == "" {
		return "unknown"
	}
	return claims.Email
}
