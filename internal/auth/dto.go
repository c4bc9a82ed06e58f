package auth

import "github.com/angelmondragon/flickly-backend/internal/users"

// RegisterRequest is the self-service sign-up payload.
type RegisterRequest struct {
	UserName  string  `json:"userName" validate:"required,min=2,max=50"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,password"`
	FirstName *string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	Age       *int    `json:"age" validate:"omitempty,min=1,max=120"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
// Password emptiness is reported by the service with its own message.
type LoginRequest struct {
	UserName string `json:"userName" validate:"required,min=2,max=50"`
	Password string `json:"password"`
}

// AuthResponse contains the access token and the public user view.
type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	User        *users.UserDTO `json:"user"`
}
