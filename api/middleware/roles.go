package middleware

import (
	"net/http"

	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/api/validators"
	"github.com/angelmondragon/flickly-backend/internal/policy"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := policy.RequireRole(PrincipalFromContext(r.Context()), role); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SelfOrAdmin lets admins through and otherwise requires the UUID in the
// param route segment to match the caller.
func SelfOrAdmin(param string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			targetID, err := validators.ParseUUIDParam(r, param)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := policy.SelfOrAdmin(PrincipalFromContext(r.Context()), targetID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
