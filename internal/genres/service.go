package genres

import (
	"context"
	"fmt"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
)

type Service interface {
	FindAll(ctx context.Context) ([]GenreDTO, error)
}

type genreRepository interface {
	FindAll(ctx context.Context) ([]models.Genre, error)
}

type service struct {
	repo genreRepository
}

func NewService(repo genreRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("genre repository is required")
	}
	return &service{repo: repo}, nil
}

// FindAll lists the genre catalog. An empty catalog is reported as not found.
func (s *service) FindAll(ctx context.Context) ([]GenreDTO, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list genres")
	}
	if len(list) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Genres not found")
	}
	return FromModels(list), nil
}
