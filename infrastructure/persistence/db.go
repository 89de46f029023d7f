package persistence

import (
	"github.com/archmapio/archmap/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&EntityModel{},
		&JunctionModel{},
		&RunModel{},
	)
}
