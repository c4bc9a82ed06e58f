package controllers

import (
	"net/http"

	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/internal/genres"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

func GenresList(svc genres.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.FindAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Genres successfully retrieved", list)
	}
}
