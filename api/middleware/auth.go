package middleware

import (
	"net/http"

	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	pkgAuth "github.com/lopeshyago/fusionbackapp/pkg/auth"
	"github.com/lopeshyago/fusionbackapp/pkg/auth/session"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

const invalidTokenMessage = "invalid or expired token"

// Auth validates a bearer token and seeds the request context with the claims.
// Every failure answers with the same 401 body; the cause only reaches the log.
func Auth(cfg config.JWTConfig, revocations session.RevocationChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage))
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidTokenMessage))
					return
				}
			}

			ctx := WithClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithAccountID(ctx, claims.AccountID)
				ctx = logg.WithRole(ctx, claims.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
