package controllers

import (
	"net/http"

	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	"github.com/lopeshyago/fusionbackapp/internal/auth"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

// RegisterStudent signs a student up with a condominium invite code.
func RegisterStudent(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return inviteRegistration(svc, logg, func(r *http.Request, body auth.InviteRegisterRequest) (*auth.AuthResponse, error) {
		return svc.RegisterStudent(r.Context(), body)
	})
}

// RegisterInstructor signs an instructor up with a single-use invite.
func RegisterInstructor(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return inviteRegistration(svc, logg, func(r *http.Request, body auth.InviteRegisterRequest) (*auth.AuthResponse, error) {
		return svc.RegisterInstructor(r.Context(), body)
	})
}

func inviteRegistration(svc auth.Service, logg *logger.Logger, register func(*http.Request, auth.InviteRegisterRequest) (*auth.AuthResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.InviteRegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := register(r, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(TokenHeader, result.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// RedeemInvite applies a generic invite to the authenticated caller.
func RedeemInvite(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.RedeemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RedeemInvite(r.Context(), middleware.ActorFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(TokenHeader, result.Token)
		responses.WriteSuccess(w, result)
	}
}
