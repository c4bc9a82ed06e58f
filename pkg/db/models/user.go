package models

import (
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserName        string         `gorm:"column:user_name;type:varchar(255);not null;uniqueIndex:users_user_name_key,where:deleted_at IS NULL"`
	Email           string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex:users_email_key,where:deleted_at IS NULL"`
	PasswordHash    string         `gorm:"column:password;not null"`
	FirstName       *string        `gorm:"column:first_name;type:varchar(255)"`
	LastName        *string        `gorm:"column:last_name;type:varchar(255)"`
	Phone           *string        `gorm:"column:phone"`
	Age             *int           `gorm:"column:age"`
	Avatar          *string        `gorm:"column:avatar;type:varchar(500)"`
	Role            enums.UserRole `gorm:"column:role;type:varchar(16);not null;default:USER"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
	FavouriteMovies []Movie        `gorm:"many2many:user_favourite_movies;"`
}

// BeforeCreate assigns the primary key when the caller did not.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
