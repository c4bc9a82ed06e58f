package security

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/flickly-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash signals a stored value that is not a bcrypt hash.
var ErrInvalidHash = fmt.Errorf("invalid bcrypt hash")

// HashPassword returns a salted bcrypt hash for the provided plaintext.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), costFromConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns true when the password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrHashTooShort):
		return false, ErrInvalidHash
	default:
		var versionErr bcrypt.HashVersionTooNewError
		var prefixErr bcrypt.InvalidHashPrefixError
		if errors.As(err, &versionErr) || errors.As(err, &prefixErr) {
			return false, ErrInvalidHash
		}
		return false, err
	}
}

func costFromConfig(cfg config.PasswordConfig) int {
	if cfg.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	if cfg.BcryptCost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cfg.BcryptCost
}
