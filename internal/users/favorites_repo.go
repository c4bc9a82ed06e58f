package users

import (
	"context"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const favouritesTable = "user_favourite_movies"

// FavoriteMovies returns the movies linked to userID with their genres.
func (r *Repository) FavoriteMovies(ctx context.Context, userID uuid.UUID) ([]models.Movie, error) {
	var list []models.Movie
	err := r.DB(ctx).
		Joins("JOIN "+favouritesTable+" ufm ON ufm.movie_id = movies.id").
		Where("ufm.user_id = ?", userID).
		Preload("Genres", orderGenres).
		Order("movies.id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// HasFavorite reports whether the (user, movie) edge exists.
func (r *Repository) HasFavorite(ctx context.Context, userID uuid.UUID, movieID uint) (bool, error) {
	var count int64
	err := r.Table(ctx, favouritesTable).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddFavorite inserts the (user, movie) edge. A duplicate surfaces as the
// join table's primary key violation.
func (r *Repository) AddFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	return r.Table(ctx, favouritesTable).Create(map[string]any{
		"user_id":  userID,
		"movie_id": movieID,
	}).Error
}

// RemoveFavorite deletes the edge; removing an absent edge is not an error.
func (r *Repository) RemoveFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error {
	return r.DB(ctx).
		Exec("DELETE FROM "+favouritesTable+" WHERE user_id = ? AND movie_id = ?", userID, movieID).
		Error
}

func orderGenres(q *gorm.DB) *gorm.DB {
	return q.Order("genres.name ASC")
}
