package controllers

import (
	"net/http"

	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	"github.com/lopeshyago/fusionbackapp/internal/accounts"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

// Me returns the caller's account merged with its profile.
func Me(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("accounts"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		account, err := svc.Get(r.Context(), actor, actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}

// UpdateProfile applies a partial update to the caller's own account and profile.
func UpdateProfile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("accounts"))
			return
		}

		payload, err := validators.DecodeJSONMap(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		account, err := svc.Update(r.Context(), actor, actor.ID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}
