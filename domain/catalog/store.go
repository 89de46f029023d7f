package catalog

import "context"

// EntityStore persists entity collections. The backing store exposes no join
// primitive; callers join in memory over the results of Find.
type EntityStore interface {
	Find(ctx context.Context, options ...Option) ([]Entity, error)
	FindOne(ctx context.Context, options ...Option) (Entity, error)
	Exists(ctx context.Context, options ...Option) (bool, error)
	Count(ctx context.Context, options ...Option) (int64, error)
	Save(ctx context.Context, entity Entity) (Entity, error)
	// Upsert writes by (entity type, business key): an existing row keeps
	// its internal ID and gets its descriptive fields replaced. The bool
	// reports whether a new row was created.
	Upsert(ctx context.Context, entity Entity) (Entity, bool, error)
	DeleteBy(ctx context.Context, options ...Option) error
}
