package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portside-hq/portside-backend/api/responses"
	"github.com/portside-hq/portside-backend/internal/organizations"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

// AgenciesList returns every shipping agency on the platform.
func AgenciesList(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organizations service unavailable"))
			return
		}

		agencies, err := svc.ListAgencies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agencies)
	}
}

// OrganizationGet returns a single organization profile.
func OrganizationGet(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organizations service unavailable"))
			return
		}

		orgID, err := parseUUIDParam(chi.URLParam(r, "organizationId"), "organization id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		org, err := svc.GetByID(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, org)
	}
}
