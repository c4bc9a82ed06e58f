package controllers

import (
	"net/http"

	"github.com/angelmondragon/flickly-backend/api/middleware"
	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/api/validators"
	"github.com/angelmondragon/flickly-backend/internal/auth"
	"github.com/angelmondragon/flickly-backend/internal/policy"
	"github.com/angelmondragon/flickly-backend/internal/users"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

// AuthRegister wires the self-service sign-up endpoint into the HTTP layer.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "User successfully created", result)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User successfully logged in", result)
	}
}

// AuthMe returns the public view of the authenticated caller.
func AuthMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := middleware.PrincipalFromContext(r.Context())
		if err := policy.RequireAuthenticated(principal); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.FindOneByID(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "User successfully retrieved", user)
	}
}
