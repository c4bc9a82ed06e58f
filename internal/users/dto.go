package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	UserName  string         `json:"userName"`
	Email     string         `json:"email"`
	FirstName *string        `json:"firstName"`
	LastName  *string        `json:"lastName"`
	Phone     *string        `json:"phone"`
	Age       *int           `json:"age"`
	Avatar    *string        `json:"avatar"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CreateUserRequest is the admin payload for POST /users.
type CreateUserRequest struct {
	UserName  string          `json:"userName" validate:"required,min=2,max=50"`
	Email     string          `json:"email" validate:"required,email,max=255"`
	Password  string          `json:"password" validate:"required,password"`
	FirstName *string         `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  *string         `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone     *string         `json:"phone" validate:"omitempty,e164"`
	Age       *int            `json:"age" validate:"omitempty,min=1,max=120"`
	Role      *enums.UserRole `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// UpdateUserRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Email     *string         `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string         `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  *string         `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone     *string         `json:"phone" validate:"omitempty,e164"`
	Age       *int            `json:"age" validate:"omitempty,min=1,max=120"`
	Role      *enums.UserRole `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ListQuery holds the admin listing filters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Role   enums.UserRole
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	UserName     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Phone        *string
	Age          *int
	Role         enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Age:       u.Age,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	return &models.User{
		UserName:     NormalizeUserName(c.UserName),
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
		FirstName:    trimPtr(c.FirstName),
		LastName:     trimPtr(c.LastName),
		Phone:        trimPtr(c.Phone),
		Age:          c.Age,
		Role:         role,
	}
}

// NormalizeEmail trims and lowercases an address before lookups and writes.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeUserName(userName string) string {
	return strings.TrimSpace(userName)
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
