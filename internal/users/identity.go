package users

import (
	"context"

	"github.com/angelmondragon/flickly-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	userNameTakenMessage = "This userName already in use"
	emailTakenMessage    = "User with this email already exists"
)

// IdentityLookup answers the uniqueness questions asked before writes.
type IdentityLookup interface {
	ExistsByUserName(ctx context.Context, userName string, exclude uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
}

// CheckIdentityAvailable returns a Conflict when a live user other than
// exclude owns userName or email. Empty values are not checked.
func CheckIdentityAvailable(ctx context.Context, lookup IdentityLookup, userName, email string, exclude uuid.UUID) error {
	if userName != "" {
		taken, err := lookup.ExistsByUserName(ctx, userName, exclude)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check userName")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, userNameTakenMessage)
		}
	}
	if email != "" {
		taken, err := lookup.ExistsByEmail(ctx, email, exclude)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
	}
	return nil
}

// MapWriteError translates a failed user write. Unique violations lost to a
// concurrent writer become the same Conflict the pre-check would have raised.
func MapWriteError(ctx context.Context, lookup IdentityLookup, err error, userName, email string, exclude uuid.UUID, action string) error {
	if !db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
	if conflict := CheckIdentityAvailable(ctx, lookup, userName, email, exclude); conflict != nil {
		return conflict
	}
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "User already exists")
}
