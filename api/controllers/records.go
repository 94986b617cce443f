package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lopeshyago/fusionbackapp/api/middleware"
	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/api/validators"
	"github.com/lopeshyago/fusionbackapp/internal/records"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

func tableContext(r *http.Request, logg *logger.Logger) (context.Context, string) {
	table := chi.URLParam(r, "table")
	return logg.WithTable(r.Context(), table), table
}

// RecordList returns every row of the table in id order.
func RecordList(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("records"))
			return
		}
		ctx, table := tableContext(r, logg)

		rows, err := svc.List(ctx, middleware.ActorFromContext(ctx), table)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func RecordCreate(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("records"))
			return
		}
		ctx, table := tableContext(r, logg)

		payload, err := validators.DecodeJSONMap(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, middleware.ActorFromContext(ctx), table, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func RecordUpdate(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("records"))
			return
		}
		ctx, table := tableContext(r, logg)

		id, err := validators.ParseID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload, err := validators.DecodeJSONMap(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Update(ctx, middleware.ActorFromContext(ctx), table, id, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func RecordDelete(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("records"))
			return
		}
		ctx, table := tableContext(r, logg)

		id, err := validators.ParseID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.ActorFromContext(ctx), table, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}
