package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims carries only the subject; role and profile state are
// re-read from storage on every authenticated request.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *AccessTokenClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
