package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, want: true},
		{name: "pgx unique wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "pgx constraint match", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, constraint: "users_email_key", want: true},
		{name: "pgx constraint mismatch", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, constraint: "users_user_name_key", want: false},
		{name: "pgx other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq unique", err: &pq.Error{Code: "23505", Constraint: "movies_external_id_key"}, want: true},
		{name: "sqlite driver unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: true},
		{name: "sqlite driver primary key", err: fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}), want: true},
		{name: "sqlite driver foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: false},
		{name: "sqlite unique message", err: errors.New("UNIQUE constraint failed: users.user_name"), want: true},
		{name: "sqlite column match", err: errors.New("UNIQUE constraint failed: users.user_name"), constraint: "users.user_name", want: true},
		{name: "message fallback", err: errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
