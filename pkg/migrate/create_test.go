package migrate

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "  Add Movie Runtime! ", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "20260301123000_add_movie_runtime.sql", filepath.Base(path))
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := CreateSQLMigration(dir, "init", fixedNow)
	require.NoError(t, err)

	_, err = CreateSQLMigration(dir, "init", fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	_, err := CreateSQLMigration(t.TempDir(), "!!!", fixedNow)
	require.Error(t, err)
}

func TestValidateFS(t *testing.T) {
	valid := "-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n"
	cases := map[string]struct {
		files   fstest.MapFS
		wantErr string
	}{
		"valid": {
			files: fstest.MapFS{
				"20260101000000_init.sql": {Data: []byte(valid)},
				"README.md":               {Data: []byte("ignored")},
			},
		},
		"bad name": {
			files:   fstest.MapFS{"001_init.sql": {Data: []byte(valid)}},
			wantErr: "invalid migration filename",
		},
		"missing down": {
			files:   fstest.MapFS{"20260101000000_init.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}},
			wantErr: "missing",
		},
		"down before up": {
			files:   fstest.MapFS{"20260101000000_init.sql": {Data: []byte("-- +goose Down\n-- +goose Up\n")}},
			wantErr: "must come before",
		},
		"duplicate version": {
			files: fstest.MapFS{
				"20260101000000_a.sql": {Data: []byte(valid)},
				"20260101000000_b.sql": {Data: []byte(valid)},
			},
			wantErr: "duplicate migration version",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateFS(tc.files)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSourceDefaultsToEmbedded(t *testing.T) {
	fsys, err := Source("")
	require.NoError(t, err)
	require.NoError(t, ValidateFS(fsys))

	_, err = Source(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRunUpDownStatusOnSQLite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20260101000000_create_notes.sql", "-- +goose Up\nCREATE TABLE notes (id INTEGER PRIMARY KEY);\n-- +goose Down\nDROP TABLE notes;\n")
	writeFile(t, dir, "20260102000000_create_tags.sql", "-- +goose Up\nCREATE TABLE tags (id INTEGER PRIMARY KEY);\n-- +goose Down\nDROP TABLE tags;\n")

	sqlDB := openSQLite(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, sqlDB, goose.DialectSQLite3, dir, "up", &out))
	assert.Contains(t, out.String(), "20260101000000")
	assert.Contains(t, out.String(), "20260102000000")
	assert.True(t, tableExists(t, sqlDB, "tags"))

	require.NoError(t, run(ctx, sqlDB, goose.DialectSQLite3, dir, "down", nil))
	assert.False(t, tableExists(t, sqlDB, "tags"))
	assert.True(t, tableExists(t, sqlDB, "notes"))

	out.Reset()
	require.NoError(t, run(ctx, sqlDB, goose.DialectSQLite3, dir, "status", &out))
	assert.Contains(t, out.String(), "applied")
	assert.Contains(t, out.String(), "pending")

	require.Error(t, run(ctx, sqlDB, goose.DialectSQLite3, dir, "redo", nil))
}

func TestMigrateToVersionOnSQLite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20260101000000_create_notes.sql", "-- +goose Up\nCREATE TABLE notes (id INTEGER PRIMARY KEY);\n-- +goose Down\nDROP TABLE notes;\n")
	writeFile(t, dir, "20260102000000_create_tags.sql", "-- +goose Up\nCREATE TABLE tags (id INTEGER PRIMARY KEY);\n-- +goose Down\nDROP TABLE tags;\n")

	sqlDB := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, migrateToVersion(ctx, sqlDB, goose.DialectSQLite3, dir, "20260101000000", nil))
	assert.True(t, tableExists(t, sqlDB, "notes"))
	assert.False(t, tableExists(t, sqlDB, "tags"))

	require.NoError(t, migrateToVersion(ctx, sqlDB, goose.DialectSQLite3, dir, "20260102000000", nil))
	assert.True(t, tableExists(t, sqlDB, "tags"))

	require.NoError(t, migrateToVersion(ctx, sqlDB, goose.DialectSQLite3, dir, "20260101000000", nil))
	assert.False(t, tableExists(t, sqlDB, "tags"))

	require.Error(t, migrateToVersion(ctx, sqlDB, goose.DialectSQLite3, dir, "latest", nil))
}

func TestAutoMigrateModelsCreatesJoinTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:automigrate?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrateModels(conn))

	for _, table := range []string{"users", "movies", "genres", "movie_genres", "user_favourite_movies"} {
		assert.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}
	assert.True(t, conn.Migrator().HasIndex(&models.User{}, "users_user_name_key"))
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "goose.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func tableExists(t *testing.T, sqlDB *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := sqlDB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
