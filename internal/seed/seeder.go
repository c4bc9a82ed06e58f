package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	releaseDateLayout = "2006-01-02"
	maxTitleLength    = 100
	maxOverviewLength = 500
	maxGenreName      = 100
)

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result summarises one seeding run. Problems combines every skipped row.
type Result struct {
	GenresInserted int
	GenresSkipped  int
	MoviesInserted int
	MoviesSkipped  int
	Invalid        int
	Problems       error
}

type Seeder struct {
	db   txRunner
	logg *logger.Logger
}

func NewSeeder(db txRunner, logg *logger.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Seeder{db: db, logg: logg}, nil
}

// Run inserts genres then movies. Rows whose external id already exists are
// skipped; invalid rows are skipped and reported in Result.Problems.
func (s *Seeder) Run(ctx context.Context, cat *Catalog) (Result, error) {
	var res Result
	if cat == nil {
		return res, fmt.Errorf("catalog is required")
	}

	for _, rec := range cat.Genres {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		inserted, err := s.seedGenre(ctx, rec)
		switch {
		case err != nil:
			res.Invalid++
			res.Problems = multierr.Append(res.Problems, err)
			s.logg.Warn(s.logg.WithField(ctx, "genre_external_id", rec.ID), "seed.genre_skipped_invalid")
		case inserted:
			res.GenresInserted++
		default:
			res.GenresSkipped++
		}
	}

	for _, rec := range cat.Movies {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		inserted, err := s.seedMovie(ctx, rec)
		switch {
		case err != nil:
			res.Invalid++
			res.Problems = multierr.Append(res.Problems, err)
			s.logg.Warn(s.logg.WithMovieID(ctx, rec.ID), "seed.movie_skipped_invalid")
		case inserted:
			res.MoviesInserted++
		default:
			res.MoviesSkipped++
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"genres_inserted": res.GenresInserted,
		"genres_skipped":  res.GenresSkipped,
		"movies_inserted": res.MoviesInserted,
		"movies_skipped":  res.MoviesSkipped,
		"invalid":         res.Invalid,
	}), "seed.complete")
	return res, nil
}

func (s *Seeder) seedGenre(ctx context.Context, rec GenreRecord) (bool, error) {
	genre, err := rec.toModel()
	if err != nil {
		return false, err
	}
	exists, err := s.exists(ctx, &models.Genre{}, genre.ExternalID)
	if err != nil || exists {
		return false, err
	}
	if err := s.db.DB().WithContext(ctx).Create(genre).Error; err != nil {
		return false, fmt.Errorf("genre %d: %w", rec.ID, err)
	}
	return true, nil
}

func (s *Seeder) seedMovie(ctx context.Context, rec MovieRecord) (bool, error) {
	movie, err := rec.toModel()
	if err != nil {
		return false, err
	}
	exists, err := s.exists(ctx, &models.Movie{}, movie.ExternalID)
	if err != nil || exists {
		return false, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if len(rec.GenreIDs) > 0 {
			if err := tx.Where("external_id IN ?", rec.GenreIDs).Find(&movie.Genres).Error; err != nil {
				return err
			}
		}
		return tx.Create(movie).Error
	})
	if err != nil {
		return false, fmt.Errorf("movie %d: %w", rec.ID, err)
	}
	return true, nil
}

func (s *Seeder) exists(ctx context.Context, model any, externalID int) (bool, error) {
	var count int64
	err := s.db.DB().WithContext(ctx).Model(model).Where("external_id = ?", externalID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check external id %d: %w", externalID, err)
	}
	return count > 0, nil
}

func (r GenreRecord) toModel() (*models.Genre, error) {
	name := strings.TrimSpace(r.Name)
	var errs error
	if r.ID <= 0 {
		errs = multierr.Append(errs, errors.New("id must be positive"))
	}
	if name == "" || len(name) > maxGenreName {
		errs = multierr.Append(errs, fmt.Errorf("name must be 1-%d characters", maxGenreName))
	}
	if errs != nil {
		return nil, fmt.Errorf("genre %d: %w", r.ID, errs)
	}
	return &models.Genre{ExternalID: r.ID, Name: name}, nil
}

func (r MovieRecord) toModel() (*models.Movie, error) {
	title := strings.TrimSpace(r.Title)
	var errs error
	if r.ID <= 0 {
		errs = multierr.Append(errs, errors.New("id must be positive"))
	}
	if title == "" || len(title) > maxTitleLength {
		errs = multierr.Append(errs, fmt.Errorf("title must be 1-%d characters", maxTitleLength))
	}
	if len(r.Overview) > maxOverviewLength {
		errs = multierr.Append(errs, fmt.Errorf("overview exceeds %d characters", maxOverviewLength))
	}
	released, err := time.Parse(releaseDateLayout, strings.TrimSpace(r.ReleaseDate))
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("release_date %q is not YYYY-MM-DD", r.ReleaseDate))
	}
	if r.VoteAverage < 0 || r.VoteAverage > 10 {
		errs = multierr.Append(errs, errors.New("vote_average must be within 0-10"))
	}
	if r.Popularity < 0 || r.VoteCount < 0 {
		errs = multierr.Append(errs, errors.New("popularity and vote_count must not be negative"))
	}
	if errs != nil {
		return nil, fmt.Errorf("movie %d: %w", r.ID, errs)
	}

	adult := false
	if r.Adult != nil {
		adult = *r.Adult
	}
	return &models.Movie{
		ExternalID:       r.ID,
		Title:            title,
		Description:      r.Overview,
		ReleaseDate:      released.UTC(),
		OriginalLanguage: r.OriginalLanguage,
		Adult:            adult,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Popularity:       decimal.NewFromFloat(r.Popularity).Round(3),
		VoteAverage:      decimal.NewFromFloat(r.VoteAverage).Round(2),
		VoteCount:        r.VoteCount,
	}, nil
}
