package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/flickly-backend/pkg/config"
	"github.com/angelmondragon/flickly-backend/pkg/db"
	"github.com/angelmondragon/flickly-backend/pkg/logger"
)

// MaybeRunDev prepares the schema on startup. SQLite databases are always
// built from the models; Postgres runs the embedded goose migrations only in
// dev with FLICKLY_AUTO_MIGRATE set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	ctx = logg.WithField(ctx, "db_driver", cfg.DB.Driver)
	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "migrate.sqlite_models")
		return AutoMigrateModels(client.DB())
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "migrate.auto_run.start")
	if err := Run(ctx, sqlDB, "", "up", &logWriter{ctx: ctx, logg: logg}); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrate.auto_run.done")
	return nil
}

// logWriter turns each line printed by Run into a structured log entry.
type logWriter struct {
	ctx  context.Context
	logg *logger.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.logg.Info(w.logg.WithField(w.ctx, "migration", line), "migrate.applied")
		}
	}
	return len(p), nil
}
