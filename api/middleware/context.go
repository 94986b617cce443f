package middleware

import (
	"context"

	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	pkgAuth "github.com/lopeshyago/fusionbackapp/pkg/auth"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
)

type contextKey string

const (
	ctxClaims contextKey = "claims"
)

// WithClaims stores verified token claims on the context.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}

// ClaimsFromContext returns the verified claims, or nil outside authenticated routes.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

func AccountIDFromContext(ctx context.Context) int64 {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.AccountID
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.Role {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Role
	}
	return enums.RoleUnset
}

// ActorFromContext builds the caller identity the services authorize against.
func ActorFromContext(ctx context.Context) accounts.Actor {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return accounts.Actor{}
	}
	return accounts.Actor{ID: claims.AccountID, Email: claims.Email, Role: claims.Role}
}
