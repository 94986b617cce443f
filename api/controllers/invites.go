package controllers

import (
	"net/http"

	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	"github.com/lopeshyago/fusionbackapp/internal/invites"
	"github.com/lopeshyago/fusionbackapp/pkg/enums"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

// InviteCreate issues an invite of the given kind. Mounted behind RequireRole(admin).
func InviteCreate(svc invites.Service, kind enums.InviteKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("invite"))
			return
		}

		var body invites.CreateInviteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		invite, err := svc.Create(r.Context(), invites.CreateParams{
			Kind:     kind,
			Role:     role,
			TTLDays:  body.TTLDays,
			IssuerID: middleware.AccountIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

func InviteList(svc invites.Service, kind enums.InviteKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("invite"))
			return
		}

		list, err := svc.List(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
