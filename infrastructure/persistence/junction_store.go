package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/internal/database"
)

// JunctionStore implements relation.JunctionStore using GORM.
type JunctionStore struct {
	database.Repository[relation.Junction, JunctionModel]
	db database.Database
}

// NewJunctionStore creates a JunctionStore.
func NewJunctionStore(db database.Database) JunctionStore {
	return JunctionStore{
		Repository: database.NewRepository[relation.Junction, JunctionModel](db, JunctionMapper{}, "junction"),
		db:         db,
	}
}

// Save creates or updates a junction row.
func (s JunctionStore) Save(ctx context.Context, junction relation.Junction) (relation.Junction, error) {
	model := s.Mapper().ToModel(junction)

	var err error
	if junction.ID().IsZero() {
		err = s.DB(ctx).Create(&model).Error
	} else {
		err = s.DB(ctx).Save(&model).Error
	}
	if err != nil {
		return relation.Junction{}, fmt.Errorf("save junction %s %s->%s: %w",
			junction.Type(), junction.FromKey(), junction.ToKey(), err)
	}
	return s.Mapper().ToDomain(model), nil
}

// Upsert writes a junction by its identity tuple
// (junction_type, from_key, to_key, relation_type). An existing row keeps
// its internal ID, business keys and resolution fields and gets only its
// metadata replaced; a new tuple creates an unresolved row. Returns the
// stored junction and whether it was created.
func (s JunctionStore) Upsert(ctx context.Context, junction relation.Junction) (relation.Junction, bool, error) {
	var saved JunctionModel
	created := false

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var existing JunctionModel
		err := tx.
			Where("junction_type = ? AND from_key = ? AND to_key = ? AND relation_type = ?",
				junction.Type().String(),
				junction.FromKey().String(),
				junction.ToKey().String(),
				junction.Relation().String(),
			).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = s.Mapper().ToModel(junction)
			saved.ID = 0
			created = true
			return tx.Create(&saved).Error
		case err != nil:
			return err
		}

		merged := s.Mapper().ToDomain(existing).WithMetadataFrom(junction)
		saved = s.Mapper().ToModel(merged)
		return tx.Save(&saved).Error
	})
	if err != nil {
		return relation.Junction{}, false, fmt.Errorf("upsert junction %s %s->%s: %w",
			junction.Type(), junction.FromKey(), junction.ToKey(), err)
	}
	return s.Mapper().ToDomain(saved), created, nil
}

// SaveResolution persists only the resolution fields of a stored junction.
// Business keys and metadata are untouched: the resolver owns exactly these
// three columns.
func (s JunctionStore) SaveResolution(ctx context.Context, junction relation.Junction) error {
	model := s.Mapper().ToModel(junction)

	err := s.DB(ctx).
		Model(&JunctionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"from_id": model.FromID,
			"to_id":   model.ToID,
			"state":   model.State,
		}).Error
	if err != nil {
		return fmt.Errorf("save resolution for junction %d: %w", model.ID, err)
	}
	return nil
}
