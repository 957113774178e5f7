package middleware

import (
	"net/http"

	"github.com/portside-hq/portside-backend/api/responses"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

// OrganizationContext rejects requests whose token carries no active
// organization. Platform admins may operate without one.
func OrganizationContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if OrganizationIDFromContext(r.Context()) == "" && !IsPlatformAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
