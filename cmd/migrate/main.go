package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

const usage = "migration command: up|down|status|version|create|validate"

func main() {
	cmd := flag.String("cmd", "up", usage)
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory (the default is compiled in)")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// Offline commands only touch the filesystem.
	switch *cmd {
	case "create":
		if *name == "" {
			exit(errors.New("missing -name for create"))
		}
		path, err := migrate.CreateSQLMigration(*dir, *name, time.Now())
		exit(err)
		fmt.Println("created migration:", path)
		return
	case "validate":
		exit(validate(*dir))
		fmt.Println("migration validation passed")
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	exit(err)

	logg := logger.New(logger.OptionsFromConfig("migrate", cfg.App))
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "migrate.db_unavailable", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if cfg.DB.IsSQLite() {
		if *cmd != "up" {
			exit(fmt.Errorf("-cmd=%s is not supported for sqlite, only up", *cmd))
		}
		exit(migrate.AutoMigrateModels(dbClient.DB()))
		logg.Info(ctx, "migrate.sqlite_models")
		return
	}

	sqlDB, err := dbClient.SQLDB()
	exit(err)

	if err := runPostgres(ctx, sqlDB, *cmd, *dir, *version); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

func runPostgres(ctx context.Context, sqlDB *sql.DB, cmd, dir, version string) error {
	switch cmd {
	case "up", "down", "status":
		return migrate.Run(ctx, sqlDB, dir, cmd, os.Stdout)
	case "version":
		if version == "" {
			return errors.New("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, version, os.Stdout)
	default:
		return fmt.Errorf("unknown -cmd value %q (%s)", cmd, usage)
	}
}

func validate(dir string) error {
	if dir == migrate.DefaultDir {
		if _, err := os.Stat(dir); err != nil {
			fsys, err := migrate.Source(dir)
			if err != nil {
				return err
			}
			return migrate.ValidateFS(fsys)
		}
	}
	return migrate.ValidateDir(dir)
}

func exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}
