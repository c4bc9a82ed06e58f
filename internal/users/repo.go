package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/flickly-backend/internal/repo"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultListLimit is the admin listing page size.
	DefaultListLimit = 10

	searchClause = "(LOWER(first_name) LIKE ? " + db.LikeEscape +
		" OR LOWER(last_name) LIKE ? " + db.LikeEscape +
		" OR LOWER(email) LIKE ? " + db.LikeEscape +
		" OR LOWER(user_name) LIKE ? " + db.LikeEscape + ")"
)

// Repository exposes user-related persistence operations. Soft-deleted rows
// are invisible unless a method says otherwise.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a live user by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDUnscoped loads a user by id including soft-deleted rows.
func (r *Repository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Unscoped().First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUserName retrieves the live user owning userName.
func (r *Repository) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("user_name = ?", userName).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUserName reports whether a live user other than exclude owns userName.
func (r *Repository) ExistsByUserName(ctx context.Context, userName string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "user_name = ?", userName, exclude)
}

// ExistsByEmail reports whether a live user other than exclude owns email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return r.exists(ctx, "email = ?", email, exclude)
}

func (r *Repository) exists(ctx context.Context, clause string, value string, exclude uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.User{}).Where(clause, value)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of live users, newest first.
func (r *Repository) List(ctx context.Context, query ListQuery, params pagination.Params) ([]models.User, int64, error) {
	filtered := func() *gorm.DB {
		q := r.DB(ctx).Model(&models.User{})
		if term := strings.TrimSpace(query.Search); term != "" {
			pattern := db.ContainsPattern(term)
			q = q.Where(searchClause, pattern, pattern, pattern, pattern)
		}
		if query.Role.IsValid() {
			q = q.Where("role = ?", query.Role)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.User{}, 0, nil
	}

	var list []models.User
	err := filtered().
		Order("created_at DESC").
		Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update applies the column changes to a live user.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// UpdatePasswordHash overwrites the stored bcrypt hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

// SoftDelete marks a live user deleted and reports whether a row changed.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Restore clears deleted_at on a soft-deleted user.
func (r *Repository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Unscoped().
		Model(&models.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil).Error
}
