package controllers

import (
	"math"
	"net/http"

	"github.com/angelmondragon/flickly-backend/api/responses"
	"github.com/angelmondragon/flickly-backend/api/validators"
	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
)

const (
	movieRetrievedMessage   = "Movie retrieved successfully"
	trailerRetrievedMessage = "Trailer retrieved successfully"

	minReleaseYear = 1870
	maxReleaseYear = 3000
)

// MoviesList serves GET /movies with search, filters, sorting and pagination.
func MoviesList(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseMovieFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.FindWithFilters(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movieRetrievedMessage, page)
	}
}

func parseMovieFilters(r *http.Request) (movies.Filters, error) {
	var f movies.Filters
	var err error

	if f.Page, err = validators.ParseQueryInt(r, "page", 1, 1, math.MaxInt32); err != nil {
		return f, err
	}
	if f.Limit, err = validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit); err != nil {
		return f, err
	}
	if f.GenreIDs, err = validators.ParseQueryIntList(r, "genreIds"); err != nil {
		return f, err
	}
	if f.ReleaseYear, err = validators.ParseOptionalQueryInt(r, "releaseYear", minReleaseYear, maxReleaseYear); err != nil {
		return f, err
	}
	if f.Adult, err = validators.ParseQueryBool(r, "adult"); err != nil {
		return f, err
	}
	if f.SortBy, err = validators.ParseQueryEnum(r, "sortBy", enums.ParseMovieSortField); err != nil {
		return f, err
	}
	if f.Order, err = validators.ParseQueryEnum(r, "order", enums.ParseSortOrder); err != nil {
		return f, err
	}
	f.Search = validators.SanitizeString(r.URL.Query().Get("search"), 255)
	return f, nil
}

// MovieDetail serves GET /movies/{id} by external id.
func MovieDetail(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID, err := validators.ParsePositiveIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMovieID(ctx, externalID)
		}

		movie, err := svc.FindOneByExternalID(ctx, externalID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, movieRetrievedMessage, movie)
	}
}

// MovieTrailer serves GET /movies/{id}/trailer, resolving and caching the
// trailer id on first access.
func MovieTrailer(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID, err := validators.ParsePositiveIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithMovieID(ctx, externalID)
		}

		trailer, err := svc.GetTrailer(ctx, externalID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, trailerRetrievedMessage, trailer)
	}
}
