package controllers

import (
	"net/http"

	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/api/validators"
	"github.com/angelmondragon/flickly-backend/internal/users"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

const movieIDParam = "movieId"

func FavoritesList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, userIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListFavorites(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Favorites successfully retrieved", list)
	}
}

func FavoritesAdd(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, userIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParsePositiveIntParam(r, movieIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMovieID(ctx, movieID)
		}

		if err := svc.AddFavorite(ctx, userID, movieID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Movie added to favorites", nil)
	}
}

// FavoritesRemove succeeds even when the movie was not a favorite.
func FavoritesRemove(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParseUUIDParam(r, userIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movieID, err := validators.ParsePositiveIntParam(r, movieIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMovieID(ctx, movieID)
		}

		if err := svc.RemoveFavorite(ctx, userID, movieID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, "Movie removed from favorites", nil)
	}
}
