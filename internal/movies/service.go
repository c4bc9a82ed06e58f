package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/metrics"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
	"gorm.io/gorm"
)

const movieNotFoundMessage = "Movie not found"

// Service exposes the movie catalog queries and the trailer cache.
type Service interface {
	FindWithFilters(ctx context.Context, filters Filters) (pagination.Page[MovieDTO], error)
	FindOneByExternalID(ctx context.Context, externalID int) (*MovieDTO, error)
	GetMovieEntityByExternalID(ctx context.Context, externalID int) (*models.Movie, error)
	GetTrailer(ctx context.Context, externalID int) (*TrailerDTO, error)
}

type movieRepository interface {
	FindBySpec(ctx context.Context, spec QuerySpec) ([]models.Movie, int64, error)
	FindByExternalID(ctx context.Context, externalID int, withGenres bool) (*models.Movie, error)
	SetVideoIDIfEmpty(ctx context.Context, movieID uint, videoID string) (bool, error)
	FindVideoID(ctx context.Context, movieID uint) (*string, error)
}

// TrailerFinder searches an external video catalog for a movie trailer.
// An empty id with a nil error means no match.
type TrailerFinder interface {
	FindTrailer(ctx context.Context, title string) (string, error)
}

// ServiceParams bundles the dependencies required to build a movies service.
type ServiceParams struct {
	Repo     movieRepository
	Trailers TrailerFinder
	Metrics  *metrics.TrailerMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     movieRepository
	trailers TrailerFinder
	metrics  *metrics.TrailerMetrics
	logg     *logger.Logger
}

// NewService constructs the movies service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("movie repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:     params.Repo,
		trailers: params.Trailers,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) FindWithFilters(ctx context.Context, filters Filters) (pagination.Page[MovieDTO], error) {
	spec := BuildQuerySpec(filters)
	rows, total, err := s.repo.FindBySpec(ctx, spec)
	if err != nil {
		return pagination.Page[MovieDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movies")
	}
	return pagination.NewPage(FromModels(rows), total, spec.Paging), nil
}

func (s *service) FindOneByExternalID(ctx context.Context, externalID int) (*MovieDTO, error) {
	movie, err := s.findByExternalID(ctx, externalID, true)
	if err != nil {
		return nil, err
	}
	dto := FromModel(movie)
	return &dto, nil
}

func (s *service) GetMovieEntityByExternalID(ctx context.Context, externalID int) (*models.Movie, error) {
	return s.findByExternalID(ctx, externalID, false)
}

func (s *service) findByExternalID(ctx context.Context, externalID int, withGenres bool) (*models.Movie, error) {
	movie, err := s.repo.FindByExternalID(ctx, externalID, withGenres)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, movieNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup movie")
	}
	return movie, nil
}
