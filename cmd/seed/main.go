package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/flickly-backend/internal/seed"
	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
	"github.com/angelmondragon/flickly-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	file := flag.String("file", "", "catalog file to import (.json, .yaml or .yml)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.OptionsFromConfig("seed", cfg.App))
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"file": *file,
	})

	catalog, err := seed.LoadCatalog(*file)
	requireResource(ctx, logg, "catalog", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "schema", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	seeder, err := seed.NewSeeder(dbClient, logg)
	requireResource(ctx, logg, "seeder", err)

	result, err := seeder.Run(ctx, catalog)
	if err != nil {
		logg.Error(ctx, "seed run failed", err)
		os.Exit(1)
	}

	for _, problem := range multierr.Errors(result.Problems) {
		logg.Warn(logg.WithField(ctx, "problem", problem.Error()), "seed.invalid_row")
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"genres_inserted": result.GenresInserted,
		"genres_skipped":  result.GenresSkipped,
		"movies_inserted": result.MoviesInserted,
		"movies_skipped":  result.MoviesSkipped,
		"invalid":         result.Invalid,
	}), "seed completed")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
