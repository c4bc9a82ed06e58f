package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/internal/policy"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth validates the bearer token, re-reads the user and seeds the request
// context with the resulting principal.
func Auth(authn authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "User not authenticated"))
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			principal := &policy.Principal{ID: user.ID, Role: user.Role}
			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID.String())
				ctx = logg.WithActorRole(ctx, user.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
