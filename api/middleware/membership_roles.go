package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/api/responses"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

type MembershipChecker interface {
	UserHasRole(ctx context.Context, userID, organizationID uuid.UUID, roles ...enums.MemberRole) (bool, error)
}

// RequireOrganizationRoles filters requests by membership roles before executing the handler.
func RequireOrganizationRoles(checker MembershipChecker, logg *logger.Logger, allowed ...enums.MemberRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if checker == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership checker unavailable"))
				return
			}
			if len(allowed) == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allowed roles missing"))
				return
			}

			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			orgID := OrganizationIDFromContext(ctx)
			if orgID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "organization context required"))
				return
			}

			uid, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}

			oid, err := uuid.Parse(orgID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid organization id"))
				return
			}

			ok, err := checker.UserHasRole(ctx, uid, oid, allowed...)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership role"))
				return
			}
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient organization role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
