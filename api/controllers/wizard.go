package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/api/responses"
	"github.com/portside-hq/portside-backend/api/validators"
	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/internal/wizard"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

func wizardScope(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orgID, err := organizationIDFromRequest(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, orgID, nil
}

// WizardStart opens a fresh draft session, replacing any existing draft.
func WizardStart(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wizard.StartSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Start(r.Context(), userID, orgID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// WizardActive returns the caller's current draft, if any.
func WizardActive(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.GetActive(r.Context(), userID, orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// WizardGet returns a session by id.
func WizardGet(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.GetByID(r.Context(), userID, orgID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// WizardSetVesselPort records the vessel and port step.
func WizardSetVesselPort(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wizard.SetVesselPortRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.SetVesselAndPort(r.Context(), userID, orgID, sessionID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// WizardSetCategories records the category selection step.
func WizardSetCategories(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wizard.SetCategoriesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.SetCategories(r.Context(), userID, orgID, sessionID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// WizardSetServices records the service selection step with price snapshots.
func WizardSetServices(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body wizard.SetServicesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.SetServices(r.Context(), userID, orgID, sessionID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// WizardCancel abandons a draft session.
func WizardCancel(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), userID, orgID, sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// WizardComplete submits a review-stage session and returns the created order.
func WizardComplete(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wizard service unavailable"))
			return
		}

		userID, orgID, err := wizardScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := parseUUIDParam(chi.URLParam(r, "sessionId"), "session id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.CompleteSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Complete(r.Context(), userID, orgID, sessionID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
