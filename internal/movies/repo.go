package movies

import (
	"context"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes movie persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a movies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySpec runs a listing described by spec and returns the page rows with
// their genres plus the total number of matches.
func (r *Repository) FindBySpec(ctx context.Context, spec QuerySpec) ([]models.Movie, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Movie{})
		for _, p := range spec.Predicates {
			q = q.Where(p.Clause, p.Args...)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Movie{}, 0, nil
	}

	var movies []models.Movie
	err := filtered().
		Preload("Genres", orderGenres).
		Order(spec.OrderBy()).
		Offset(spec.Paging.Offset()).
		Limit(spec.Paging.Limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// FindByExternalID loads a movie by its catalog id, optionally with genres.
func (r *Repository) FindByExternalID(ctx context.Context, externalID int, withGenres bool) (*models.Movie, error) {
	q := r.db.WithContext(ctx)
	if withGenres {
		q = q.Preload("Genres", orderGenres)
	}
	var movie models.Movie
	if err := q.Where("external_id = ?", externalID).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// SetVideoIDIfEmpty stores videoID only when the movie has no trailer yet and
// reports whether this call performed the write.
func (r *Repository) SetVideoIDIfEmpty(ctx context.Context, movieID uint, videoID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ? AND (video_id IS NULL OR video_id = '')", movieID).
		UpdateColumn("video_id", videoID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindVideoID re-reads the stored trailer id of a movie.
func (r *Repository) FindVideoID(ctx context.Context, movieID uint) (*string, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).Select("id", "video_id").First(&movie, movieID).Error; err != nil {
		return nil, err
	}
	return movie.VideoID, nil
}

func orderGenres(db *gorm.DB) *gorm.DB {
	return db.Order("genres.name ASC")
}
