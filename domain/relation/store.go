package relation

import (
	"context"

	"github.com/archmapio/archmap/domain/catalog"
)

// Option is re-exported so junction store callers read naturally.
type Option = catalog.Option

// JunctionStore persists junction collections. Business-key fields are
// immutable after import; resolution fields are rewritten wholesale by
// SaveResolution.
type JunctionStore interface {
	Find(ctx context.Context, options ...Option) ([]Junction, error)
	FindOne(ctx context.Context, options ...Option) (Junction, error)
	Count(ctx context.Context, options ...Option) (int64, error)
	Save(ctx context.Context, junction Junction) (Junction, error)
	// Upsert writes by identity tuple (junction type, from key, to key,
	// relation type): an existing row keeps its ID, keys and resolution and
	// gets only its metadata replaced. The bool reports creation.
	Upsert(ctx context.Context, junction Junction) (Junction, bool, error)
	// SaveResolution persists only the resolved IDs and state of an already
	// stored junction.
	SaveResolution(ctx context.Context, junction Junction) error
	DeleteBy(ctx context.Context, options ...Option) error
}
