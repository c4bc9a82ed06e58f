package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/flickly-backend/internal/movies"
	"github.com/angelmondragon/flickly-backend/internal/policy"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/pagination"
	"github.com/angelmondragon/flickly-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	userNotFoundMessage = "User not found"

	// MinPasswordLength applies to every password the service hashes.
	MinPasswordLength = 8
)

// Service manages user accounts and their favorite movies.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error)
	List(ctx context.Context, query ListQuery) (pagination.Page[UserDTO], error)
	FindOneByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, actor *policy.Principal, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, req UpdatePasswordRequest) error
	Remove(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*UserDTO, error)

	ListFavorites(ctx context.Context, userID uuid.UUID) ([]movies.MovieDTO, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, movieExternalID int) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, movieExternalID int) error
}

type userRepository interface {
	IdentityLookup
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, query ListQuery, params pagination.Params) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Restore(ctx context.Context, id uuid.UUID) error

	FavoriteMovies(ctx context.Context, userID uuid.UUID) ([]models.Movie, error)
	HasFavorite(ctx context.Context, userID uuid.UUID, movieID uint) (bool, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, movieID uint) error
}

type movieLookup interface {
	GetMovieEntityByExternalID(ctx context.Context, externalID int) (*models.Movie, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo     userRepository
	Movies   movieLookup
	Password config.PasswordConfig
}

type service struct {
	repo        userRepository
	movies      movieLookup
	passwordCfg config.PasswordConfig
}

// NewService constructs the users service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Movies == nil {
		return nil, fmt.Errorf("movie lookup is required")
	}
	return &service{
		repo:        params.Repo,
		movies:      params.Movies,
		passwordCfg: params.Password,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	userName := NormalizeUserName(req.UserName)
	email := NormalizeEmail(req.Email)
	if err := CheckIdentityAvailable(ctx, s.repo, userName, email, uuid.Nil); err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 8 characters")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	role := enums.UserRoleUser
	if req.Role != nil && req.Role.IsValid() {
		role = *req.Role
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Age:          req.Age,
		Role:         role,
	})
	if err != nil {
		return nil, MapWriteError(ctx, s.repo, err, userName, email, uuid.Nil, "create user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, query ListQuery) (pagination.Page[UserDTO], error) {
	params := pagination.Params{Page: query.Page, Limit: query.Limit}.Normalize(DefaultListLimit)
	rows, total, err := s.repo.List(ctx, query, params)
	if err != nil {
		return pagination.Page[UserDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return pagination.NewPage(out, total, params), nil
}

func (s *service) FindOneByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// Update applies a partial profile change. Role changes are ignored unless
// the actor is an admin.
func (s *service) Update(ctx context.Context, actor *policy.Principal, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	email := ""
	if req.Email != nil {
		if normalized := NormalizeEmail(*req.Email); normalized != user.Email {
			email = normalized
			if err := CheckIdentityAvailable(ctx, s.repo, "", email, id); err != nil {
				return nil, err
			}
			fields["email"] = email
		}
	}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Role != nil && req.Role.IsValid() && actor.IsAdmin() {
		fields["role"] = *req.Role
	}

	if len(fields) == 0 {
		return FromModel(user), nil
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, MapWriteError(ctx, s.repo, err, "", email, id, "update user")
	}
	return s.FindOneByID(ctx, id)
}

// UpdatePassword verifies the old password before re-hashing the new one.
func (s *service) UpdatePassword(ctx context.Context, id uuid.UUID, req UpdatePasswordRequest) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "Old password is incorrect")
	}
	if len(req.NewPassword) < MinPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "New password must be at least 8 characters")
	}
	if req.NewPassword == req.OldPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "New password must differ from old password")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	return nil
}

// Restore brings back a soft-deleted user when its identity is still free.
func (s *service) Restore(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByIDUnscoped(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	if !user.DeletedAt.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "User was not deleted")
	}
	if err := CheckIdentityAvailable(ctx, s.repo, user.UserName, user.Email, id); err != nil {
		return nil, err
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, MapWriteError(ctx, s.repo, err, user.UserName, user.Email, id, "restore user")
	}
	return s.FindOneByID(ctx, id)
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return user, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, userNotFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
}
