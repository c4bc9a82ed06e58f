package genres

import (
	"context"

	"github.com/angelmondragon/flickly-backend/internal/repo"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindAll returns every genre ordered by name.
func (r *Repository) FindAll(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.DB(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
