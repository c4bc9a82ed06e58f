package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// DefaultLeeway tolerates small clock drift between API replicas.
const DefaultLeeway = 30 * time.Second

// ErrTokenExpired is returned by Verify for well formed tokens past their exp.
var ErrTokenExpired = errors.New("access token expired")

// Signer issues and verifies HS256 access tokens whose only identity claim
// is the subject user id.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

type SignerOption func(*Signer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLeeway(d time.Duration) SignerOption {
	return func(s *Signer) {
		if d >= 0 {
			s.leeway = d
		}
	}
}

func NewSigner(cfg config.JWTConfig, opts ...SignerOption) (*Signer, error) {
	switch {
	case strings.TrimSpace(cfg.Secret) == "":
		return nil, fmt.Errorf("jwt secret is required")
	case strings.TrimSpace(cfg.Issuer) == "":
		return nil, fmt.Errorf("jwt issuer is required")
	case cfg.TTL <= 0:
		return nil, fmt.Errorf("jwt ttl must be positive")
	}

	s := &Signer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		leeway: DefaultLeeway,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign mints a token for userID valid for the configured TTL.
func (s *Signer) Sign(userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	now := s.now()
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry, and that the
// subject is a UUID.
func (s *Signer) Verify(token string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.key,
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, err
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	return claims, nil
}

func (s *Signer) key(token *jwt.Token) (any, error) {
	if token.Method != jwtSigningMethod {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return s.secret, nil
}
