package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base holds the connection shared by the catalog and identity repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx when one is given.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a copy of the base that runs every query inside tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Table scopes a query on ctx to a table without a backing model.
func (b Base) Table(ctx context.Context, name string) *gorm.DB {
	return b.DB(ctx).Table(name)
}
