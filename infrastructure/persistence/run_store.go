package persistence

import (
	"context"
	"fmt"

	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/internal/database"
)

// RunStore implements importing.RunStore using GORM.
type RunStore struct {
	database.Repository[importing.Run, RunModel]
}

// NewRunStore creates a RunStore.
func NewRunStore(db database.Database) RunStore {
	return RunStore{
		Repository: database.NewRepository[importing.Run, RunModel](db, RunMapper{}, "run"),
	}
}

// Save inserts or updates a run record (runs are saved once at start and
// once at finish).
func (s RunStore) Save(ctx context.Context, run importing.Run) (importing.Run, error) {
	model := s.Mapper().ToModel(run)
	if err := s.DB(ctx).Save(&model).Error; err != nil {
		return importing.Run{}, fmt.Errorf("save run %s: %w", run.ID(), err)
	}
	return s.Mapper().ToDomain(model), nil
}
