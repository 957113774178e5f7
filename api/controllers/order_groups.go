package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/api/middleware"
	"github.com/portside-hq/portside-backend/api/responses"
	"github.com/portside-hq/portside-backend/api/validators"
	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

func groupActor(r *http.Request) (orders.Actor, error) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		return orders.Actor{}, err
	}
	orgID, err := organizationIDFromRequest(r)
	if err != nil {
		return orders.Actor{}, err
	}
	return orders.Actor{
		UserID:          userID,
		OrganizationID:  orgID,
		Role:            enums.MemberRole(middleware.RoleFromContext(r.Context())),
		IsPlatformAdmin: middleware.IsPlatformAdminFromContext(r.Context()),
	}, nil
}

// AgencyGroupsList returns order groups assigned to the caller's agency.
func AgencyGroupsList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orgID, err := organizationIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.OrderGroupStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			candidate := enums.OrderGroupStatus(raw)
			if !candidate.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			status = &candidate
		}

		page, err := svc.ListGroups(r.Context(), orgID, status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// AgencyGroupGet returns one order group with its line items.
func AgencyGroupGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orgID, err := organizationIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := parseUUIDParam(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.GetGroup(r.Context(), orgID, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// AgencyGroupAccept marks a pending group as accepted by the agency.
func AgencyGroupAccept(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return groupDecision(svc, logg, func(r *http.Request, actor orders.Actor, groupID uuid.UUID, body orders.GroupDecisionRequest) (*orders.OrderGroupDTO, error) {
		return svc.AcceptGroup(r.Context(), actor, groupID, body)
	})
}

// AgencyGroupReject marks a pending group as rejected with a reason.
func AgencyGroupReject(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return groupDecision(svc, logg, func(r *http.Request, actor orders.Actor, groupID uuid.UUID, body orders.GroupDecisionRequest) (*orders.OrderGroupDTO, error) {
		return svc.RejectGroup(r.Context(), actor, groupID, body)
	})
}

func groupDecision(svc orders.Service, logg *logger.Logger, apply func(*http.Request, orders.Actor, uuid.UUID, orders.GroupDecisionRequest) (*orders.OrderGroupDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, err := groupActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := parseUUIDParam(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.GroupDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := apply(r, actor, groupID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// AgencyGroupStart moves an accepted group into fulfilment.
func AgencyGroupStart(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return groupTransition(svc, logg, func(r *http.Request, actor orders.Actor, groupID uuid.UUID) (*orders.OrderGroupDTO, error) {
		return svc.StartGroup(r.Context(), actor, groupID)
	})
}

// AgencyGroupComplete marks an in-progress group as done.
func AgencyGroupComplete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return groupTransition(svc, logg, func(r *http.Request, actor orders.Actor, groupID uuid.UUID) (*orders.OrderGroupDTO, error) {
		return svc.CompleteGroup(r.Context(), actor, groupID)
	})
}

func groupTransition(svc orders.Service, logg *logger.Logger, apply func(*http.Request, orders.Actor, uuid.UUID) (*orders.OrderGroupDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor, err := groupActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := parseUUIDParam(chi.URLParam(r, "groupId"), "group id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := apply(r, actor, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}
