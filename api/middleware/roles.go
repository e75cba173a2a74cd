package middleware

import (
	"net/http"

	"github.com/domeohq/doors-backend/api/responses"
	"github.com/domeohq/doors-backend/pkg/enums"
	pkgerrors "github.com/domeohq/doors-backend/pkg/errors"
	"github.com/domeohq/doors-backend/pkg/logger"
)

// RequireRole rejects requests whose authenticated role is not in the allow
// list. It runs after Auth.
func RequireRole(logg *logger.Logger, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := enums.UserRole(RoleFromContext(r.Context()))
			for _, role := range allowed {
				if current == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
