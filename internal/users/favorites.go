package users

import (
	"context"

	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/google/uuid"
)

const alreadyFavoriteMessage = "Movie is already in favorites"

func (s *service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]movies.MovieDTO, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.FavoriteMovies(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	return movies.FromModels(list), nil
}

// AddFavorite links a movie to the user. Membership is keyed by the movie's
// internal id; a duplicate is a Conflict.
func (s *service) AddFavorite(ctx context.Context, userID uuid.UUID, movieExternalID int) error {
	_, movie, err := s.loadEdge(ctx, userID, movieExternalID)
	if err != nil {
		return err
	}

	linked, err := s.repo.HasFavorite(ctx, userID, movie.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}
	if linked {
		return pkgerrors.New(pkgerrors.CodeConflict, alreadyFavoriteMessage)
	}

	if err := s.repo.AddFavorite(ctx, userID, movie.ID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, alreadyFavoriteMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add favorite")
	}
	return nil
}

// RemoveFavorite unlinks a movie; an absent link is not an error.
func (s *service) RemoveFavorite(ctx context.Context, userID uuid.UUID, movieExternalID int) error {
	_, movie, err := s.loadEdge(ctx, userID, movieExternalID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveFavorite(ctx, userID, movie.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	return nil
}

func (s *service) loadEdge(ctx context.Context, userID uuid.UUID, movieExternalID int) (*models.User, *models.Movie, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	movie, err := s.movies.GetMovieEntityByExternalID(ctx, movieExternalID)
	if err != nil {
		return nil, nil, err
	}
	return user, movie, nil
}
