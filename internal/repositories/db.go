package repositories

import (
	"fmt"

	"github.com/estate-ease/api/internal/config"
	"github.com/estate-ease/api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database and runs migrations. The returned handle is
// passed to the repositories that need it; there is no package-level
// connection state.
func Connect(cfg config.Config) (*gorm.DB, error) {
	// TranslateError maps dialect unique-constraint violations to
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Listing{}); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
