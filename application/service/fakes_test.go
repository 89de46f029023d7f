package service

import (
	"context"
	"errors"
	"sync"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
	"github.com/archmapio/archmap/internal/database"
)

// fakeEntityStore is an in-memory catalog.EntityStore that evaluates query
// conditions the way the SQL store would.
type fakeEntityStore struct {
	mu       sync.Mutex
	nextID   int64
	entities []catalog.Entity
	// failKeys makes Upsert fail for specific business keys.
	failKeys map[catalog.BusinessKey]error
	// findErr makes every Find fail.
	findErr error
}

func newFakeEntityStore() *fakeEntityStore {
	return &fakeEntityStore{failKeys: make(map[catalog.BusinessKey]error)}
}

func matchString(got string, c catalog.Condition) bool {
	if c.In() {
		values, ok := c.Value().([]string)
		if !ok {
			return false
		}
		for _, v := range values {
			if got == v {
				return true
			}
		}
		return false
	}
	want, ok := c.Value().(string)
	return ok && got == want
}

func entityMatches(e catalog.Entity, q catalog.Query) bool {
	for _, c := range q.Conditions() {
		switch c.Field() {
		case "entity_type":
			if !matchString(e.Type().String(), c) {
				return false
			}
		case "business_key":
			if !matchString(e.Key().String(), c) {
				return false
			}
		case "status":
			if !matchString(string(e.Status()), c) {
				return false
			}
		case "id":
			id, ok := c.Value().(int64)
			if !ok || e.ID().Int64() != id {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (f *fakeEntityStore) Find(_ context.Context, options ...catalog.Option) ([]catalog.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	q := catalog.BuildQuery(options...)
	var out []catalog.Entity
	for _, e := range f.entities {
		if entityMatches(e, q) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntityStore) FindOne(ctx context.Context, options ...catalog.Option) (catalog.Entity, error) {
	found, err := f.Find(ctx, options...)
	if err != nil {
		return catalog.Entity{}, err
	}
	if len(found) == 0 {
		return catalog.Entity{}, database.ErrNotFound
	}
	return found[0], nil
}

func (f *fakeEntityStore) Exists(ctx context.Context, options ...catalog.Option) (bool, error) {
	found, err := f.Find(ctx, options...)
	return len(found) > 0, err
}

func (f *fakeEntityStore) Count(ctx context.Context, options ...catalog.Option) (int64, error) {
	found, err := f.Find(ctx, options...)
	return int64(len(found)), err
}

func (f *fakeEntityStore) Save(_ context.Context, entity catalog.Entity) (catalog.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(entity), nil
}

func (f *fakeEntityStore) saveLocked(entity catalog.Entity) catalog.Entity {
	if entity.ID().IsZero() {
		f.nextID++
		entity = catalog.ReconstructEntity(
			catalog.InternalID(f.nextID), entity.Type(), entity.Key(), entity.Name(),
			entity.Classification(), entity.Owner(), entity.Description(), entity.Status(),
			entity.CreatedAt(), entity.UpdatedAt(),
		)
		f.entities = append(f.entities, entity)
		return entity
	}
	for i, e := range f.entities {
		if e.ID() == entity.ID() {
			f.entities[i] = entity
			break
		}
	}
	return entity
}

func (f *fakeEntityStore) Upsert(_ context.Context, entity catalog.Entity) (catalog.Entity, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failKeys[entity.Key()]; err != nil {
		return catalog.Entity{}, false, err
	}
	for i, e := range f.entities {
		if e.Type() == entity.Type() && e.Key() == entity.Key() {
			merged := e.WithDescriptiveFields(entity)
			f.entities[i] = merged
			return merged, false, nil
		}
	}
	return f.saveLocked(entity), true, nil
}

func (f *fakeEntityStore) DeleteBy(_ context.Context, options ...catalog.Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := catalog.BuildQuery(options...)
	var kept []catalog.Entity
	for _, e := range f.entities {
		if !entityMatches(e, q) {
			kept = append(kept, e)
		}
	}
	f.entities = kept
	return nil
}

// fakeJunctionStore is an in-memory relation.JunctionStore.
type fakeJunctionStore struct {
	mu        sync.Mutex
	nextID    int64
	junctions []relation.Junction
	// failKeys makes Upsert fail for specific from keys.
	failKeys map[catalog.BusinessKey]error
}

func newFakeJunctionStore() *fakeJunctionStore {
	return &fakeJunctionStore{failKeys: make(map[catalog.BusinessKey]error)}
}

func junctionMatches(j relation.Junction, q catalog.Query) bool {
	for _, c := range q.Conditions() {
		switch c.Field() {
		case "junction_type":
			if !matchString(j.Type().String(), c) {
				return false
			}
		case "from_type":
			if !matchString(j.FromType().String(), c) {
				return false
			}
		case "to_type":
			if !matchString(j.ToType().String(), c) {
				return false
			}
		case "from_key":
			if !matchString(j.FromKey().String(), c) {
				return false
			}
		case "to_key":
			if !matchString(j.ToKey().String(), c) {
				return false
			}
		case "relation_type":
			if !matchString(j.Relation().String(), c) {
				return false
			}
		case "state":
			if !matchString(j.State().String(), c) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (f *fakeJunctionStore) Find(_ context.Context, options ...relation.Option) ([]relation.Junction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := catalog.BuildQuery(options...)
	var out []relation.Junction
	for _, j := range f.junctions {
		if junctionMatches(j, q) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJunctionStore) FindOne(ctx context.Context, options ...relation.Option) (relation.Junction, error) {
	found, err := f.Find(ctx, options...)
	if err != nil {
		return relation.Junction{}, err
	}
	if len(found) == 0 {
		return relation.Junction{}, database.ErrNotFound
	}
	return found[0], nil
}

func (f *fakeJunctionStore) Count(ctx context.Context, options ...relation.Option) (int64, error) {
	found, err := f.Find(ctx, options...)
	return int64(len(found)), err
}

func (f *fakeJunctionStore) Save(_ context.Context, junction relation.Junction) (relation.Junction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(junction), nil
}

func (f *fakeJunctionStore) saveLocked(junction relation.Junction) relation.Junction {
	if junction.ID().IsZero() {
		f.nextID++
		junction = relation.ReconstructJunction(
			catalog.InternalID(f.nextID), junction.Type(),
			junction.FromType(), junction.FromKey(), junction.FromID(),
			junction.ToType(), junction.ToKey(), junction.ToID(),
			junction.Relation(), junction.Notes(), junction.EffectiveDate(),
			junction.Criticality(), junction.State(),
			junction.CreatedAt(), junction.UpdatedAt(),
		)
		f.junctions = append(f.junctions, junction)
		return junction
	}
	for i, j := range f.junctions {
		if j.ID() == junction.ID() {
			f.junctions[i] = junction
			break
		}
	}
	return junction
}

func (f *fakeJunctionStore) Upsert(_ context.Context, junction relation.Junction) (relation.Junction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failKeys[junction.FromKey()]; err != nil {
		return relation.Junction{}, false, err
	}
	for i, j := range f.junctions {
		if j.Type() == junction.Type() &&
			j.FromKey() == junction.FromKey() &&
			j.ToKey() == junction.ToKey() &&
			j.Relation() == junction.Relation() {
			merged := j.WithMetadataFrom(junction)
			f.junctions[i] = merged
			return merged, false, nil
		}
	}
	return f.saveLocked(junction), true, nil
}

func (f *fakeJunctionStore) SaveResolution(_ context.Context, junction relation.Junction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, j := range f.junctions {
		if j.ID() == junction.ID() {
			f.junctions[i] = relation.ReconstructJunction(
				j.ID(), j.Type(),
				j.FromType(), j.FromKey(), junction.FromID(),
				j.ToType(), j.ToKey(), junction.ToID(),
				j.Relation(), j.Notes(), j.EffectiveDate(),
				j.Criticality(), junction.State(),
				j.CreatedAt(), j.UpdatedAt(),
			)
			return nil
		}
	}
	return errors.New("junction not found")
}

func (f *fakeJunctionStore) DeleteBy(_ context.Context, options ...relation.Option) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := catalog.BuildQuery(options...)
	var kept []relation.Junction
	for _, j := range f.junctions {
		if !junctionMatches(j, q) {
			kept = append(kept, j)
		}
	}
	f.junctions = kept
	return nil
}

func (f *fakeJunctionStore) byID(id catalog.InternalID) (relation.Junction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.junctions {
		if j.ID() == id {
			return j, true
		}
	}
	return relation.Junction{}, false
}

// fakeRunStore records saved runs.
type fakeRunStore struct {
	mu   sync.Mutex
	runs []importing.Run
}

func (f *fakeRunStore) Save(_ context.Context, run importing.Run) (importing.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.runs {
		if r.ID() == run.ID() {
			f.runs[i] = run
			return run, nil
		}
	}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRunStore) Find(_ context.Context, _ ...catalog.Option) ([]importing.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]importing.Run, len(f.runs))
	copy(out, f.runs)
	return out, nil
}
