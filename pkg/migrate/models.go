package migrate

import (
	"fmt"

	"github.com/angelmondragon/flickly-backend/pkg/db/models"
	"gorm.io/gorm"
)

// AutoMigrateModels creates the catalog and identity tables from the GORM
// models. It backs the SQLite driver, where the Postgres SQL migrations do not
// apply.
func AutoMigrateModels(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.AutoMigrate(&models.Genre{}, &models.Movie{}, &models.User{}); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	return nil
}
