package auth

import (
	"context"

	"github.com/angelmondragon/flickly-backend/internal/users"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/security"
	"github.com/google/uuid"
)

// Register creates a USER account and signs it in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	userName := users.NormalizeUserName(req.UserName)
	email := users.NormalizeEmail(req.Email)

	if err := users.CheckIdentityAvailable(ctx, s.users, userName, email, uuid.Nil); err != nil {
		return nil, err
	}
	if len(req.Password) < users.MinPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 8 characters")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Age:          req.Age,
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		return nil, users.MapWriteError(ctx, s.users, err, userName, email, uuid.Nil, "create user")
	}

	return s.issue(user)
}
