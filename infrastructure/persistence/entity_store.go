package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/internal/database"
)

// EntityStore implements catalog.EntityStore using GORM.
type EntityStore struct {
	database.Repository[catalog.Entity, EntityModel]
	db database.Database
}

// NewEntityStore creates an EntityStore.
func NewEntityStore(db database.Database) EntityStore {
	return EntityStore{
		Repository: database.NewRepository[catalog.Entity, EntityModel](db, EntityMapper{}, "entity"),
		db:         db,
	}
}

// Save creates or updates an entity. A zero internal ID creates a row; a
// non-zero ID replaces the stored row.
func (s EntityStore) Save(ctx context.Context, entity catalog.Entity) (catalog.Entity, error) {
	model := s.Mapper().ToModel(entity)

	var err error
	if entity.ID().IsZero() {
		err = s.DB(ctx).Create(&model).Error
	} else {
		err = s.DB(ctx).Save(&model).Error
	}
	if err != nil {
		return catalog.Entity{}, fmt.Errorf("save entity %s/%s: %w", entity.Type(), entity.Key(), err)
	}
	return s.Mapper().ToDomain(model), nil
}

// Upsert writes an entity by business key: an existing
// (entity_type, business_key) row keeps its internal ID and gets its
// descriptive fields replaced, a new key creates a row. Returns the stored
// entity and whether it was created. Runs in a transaction so a concurrent
// duplicate insert cannot slip between the lookup and the write.
func (s EntityStore) Upsert(ctx context.Context, entity catalog.Entity) (catalog.Entity, bool, error) {
	var saved EntityModel
	created := false

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var existing EntityModel
		err := tx.
			Where("entity_type = ? AND business_key = ?", entity.Type().String(), entity.Key().String()).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = s.Mapper().ToModel(entity)
			saved.ID = 0
			created = true
			return tx.Create(&saved).Error
		case err != nil:
			return err
		}

		merged := s.Mapper().ToDomain(existing).WithDescriptiveFields(entity)
		saved = s.Mapper().ToModel(merged)
		return tx.Save(&saved).Error
	})
	if err != nil {
		return catalog.Entity{}, false, fmt.Errorf("upsert entity %s/%s: %w", entity.Type(), entity.Key(), err)
	}
	return s.Mapper().ToDomain(saved), created, nil
}
