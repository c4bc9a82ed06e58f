package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/flickly-backend/internal/users"
	pkgAuth "github.com/angelmondragon/flickly-backend/pkg/auth"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/angelmondragon/flickly-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "Invalid credentials"
	invalidTokenMessage       = "Invalid or expired token"
)

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(token string) (uuid.UUID, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type service struct {
	users       userRepository
	tokens      *pkgAuth.Signer
	passwordCfg config.PasswordConfig
}

type userRepository interface {
	users.IdentityLookup
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Clock          func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	tokens, err := pkgAuth.NewSigner(params.JWTConfig, pkgAuth.WithClock(params.Clock))
	if err != nil {
		return nil, err
	}
	return &service{
		users:       params.UserRepo,
		tokens:      tokens,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Login verifies the credentials. Unknown users and wrong passwords share one
// message.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Password is required")
	}

	user, err := s.users.FindByUserName(ctx, users.NormalizeUserName(req.UserName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.issue(user)
}

func (s *service) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage)
	}
	userID, err := claims.UserID()
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidTokenMessage)
	}
	return userID, nil
}

// Authenticate validates the token and re-reads the user so deleted accounts
// and role changes take effect immediately.
func (s *service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func (s *service) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResponse{
		AccessToken: token,
		User:        users.FromModel(user),
	}, nil
}
