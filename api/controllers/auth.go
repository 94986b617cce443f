package controllers

import (
	"net/http"

	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	"github.com/lopeshyago/fusionbackapp/internal/auth"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

// TokenHeader mirrors the minted token for clients that read headers.
const TokenHeader = middleware.AuthTokenHeader

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(TokenHeader, result.Token)
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister handles open self-registration.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return registration(svc, logg, func(r *http.Request, body auth.RegisterRequest) (*auth.AuthResponse, error) {
		return svc.Register(r.Context(), body)
	})
}

// AdminAuthRegister bootstraps an administrator. Only mounted in dev.
func AdminAuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return registration(svc, logg, func(r *http.Request, body auth.RegisterRequest) (*auth.AuthResponse, error) {
		return svc.RegisterAdmin(r.Context(), body)
	})
}

func registration(svc auth.Service, logg *logger.Logger, register func(*http.Request, auth.RegisterRequest) (*auth.AuthResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		var body auth.RegisterRequest
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

// AuthLogout revokes the presented token until it would have expired.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.ClaimsFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
