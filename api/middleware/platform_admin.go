package middleware

import (
	"net/http"

	"github.com/portside-hq/portside-backend/api/responses"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
	"github.com/portside-hq/portside-backend/pkg/logger"
)

// RequirePlatformAdmin rejects requests whose token does not carry the platform admin flag.
func RequirePlatformAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !IsPlatformAdminFromContext(ctx) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "platform admin required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
