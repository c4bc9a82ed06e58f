package middleware

import (
	"context"

	"github.com/angelmondragon/flickly-backend/internal/policy"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// PrincipalFromContext returns the authenticated caller, or nil.
func PrincipalFromContext(ctx context.Context) *policy.Principal {
	if ctx == nil {
		return nil
	}
	if p, ok := ctx.Value(ctxPrincipal).(*policy.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects the authenticated caller into the context.
func WithPrincipal(ctx context.Context, p *policy.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}
