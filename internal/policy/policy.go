// Package policy holds the authorization decisions shared by every route
// guard. The functions are pure and never touch HTTP types.
package policy

import (
	"github.com/angelmondragon/flickly-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	accessDeniedMessage     = "Access denied"
	notAuthenticatedMessage = "User not authenticated"
)

// Principal is the authenticated caller as re-read from storage.
type Principal struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == enums.UserRoleAdmin
}

// RequireAuthenticated fails when no user was resolved for the request.
func RequireAuthenticated(p *Principal) error {
	if p == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, notAuthenticatedMessage)
	}
	return nil
}

// RequireRole fails unless the principal holds role.
func RequireRole(p *Principal, role enums.UserRole) error {
	if p == nil || p.Role != role {
		return pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
	}
	return nil
}

// SelfOrAdmin allows admins and the owner of targetID.
func SelfOrAdmin(p *Principal, targetID uuid.UUID) error {
	if p == nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, notAuthenticatedMessage)
	}
	if p.Role == enums.UserRoleAdmin || p.ID == targetID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, accessDeniedMessage)
}
