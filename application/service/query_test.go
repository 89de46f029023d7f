package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedJoinsAcrossJunctions(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	ctx := context.Background()

	seedEntity(t, entities, "capability", "CAP1", "Billing")
	seedEntity(t, entities, "application", "APP1", "Billing Service")
	seedEntity(t, entities, "application", "APP2", "Ledger")
	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP1", "primary")
	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP2", "supporting")

	queries := NewQueries(entities, junctions, nil)

	related, err := queries.Related(ctx, RelatedParams{EntityType: "capability", Key: "CAP1"})
	require.NoError(t, err)
	require.Len(t, related, 2)

	keys := map[string]string{}
	for _, r := range related {
		keys[r.Entity.Key().String()] = r.Junction.Relation().String()
		assert.Equal(t, DirectionOutgoing, r.Direction)
	}
	assert.Equal(t, "primary", keys["APP1"])
	assert.Equal(t, "supporting", keys["APP2"])

	// The reverse direction finds the capability from an application.
	related, err = queries.Related(ctx, RelatedParams{EntityType: "application", Key: "APP1"})
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "CAP1", related[0].Entity.Key().String())
	assert.Equal(t, DirectionIncoming, related[0].Direction)
}

func TestRelatedFiltersByRelation(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	ctx := context.Background()

	seedEntity(t, entities, "capability", "CAP1", "Billing")
	seedEntity(t, entities, "application", "APP1", "Billing Service")
	seedEntity(t, entities, "application", "APP2", "Ledger")
	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP1", "primary")
	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP2", "supporting")

	queries := NewQueries(entities, junctions, nil)

	related, err := queries.Related(ctx, RelatedParams{
		EntityType: "capability",
		Key:        "CAP1",
		Relation:   "primary",
	})
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "APP1", related[0].Entity.Key().String())
}

func TestRelatedUnknownKeyIsEmpty(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()

	queries := NewQueries(entities, junctions, nil)

	related, err := queries.Related(context.Background(), RelatedParams{
		EntityType: "capability",
		Key:        "NOPE",
	})
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestRelatedSkipsDanglingJunctions(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	ctx := context.Background()

	seedEntity(t, entities, "capability", "CAP1", "Billing")
	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP_MISSING", "primary")

	queries := NewQueries(entities, junctions, nil)

	related, err := queries.Related(ctx, RelatedParams{EntityType: "capability", Key: "CAP1"})
	require.NoError(t, err)
	assert.Empty(t, related)

	// After resolution the dangling side is reported by Unresolved; the
	// CAP1 side resolved and is no longer flagged.
	_, err = NewResolver(entities, junctions, &fakeRunStore{}, nil).ResolveAll(ctx)
	require.NoError(t, err)

	refs, err := queries.Unresolved(ctx, "")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, SideTo, refs[0].Side)
	assert.Equal(t, "APP_MISSING", refs[0].Key.String())
}

func TestUnresolvedFiltersByJunctionType(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	ctx := context.Background()

	seedJunction(t, junctions, "capability-application", "capability", "CAP1", "application", "APP_MISSING", "primary")
	seedJunction(t, junctions, "application-technology", "application", "APP_MISSING", "technology", "TECH1", "")

	queries := NewQueries(entities, junctions, nil)

	refs, err := queries.Unresolved(ctx, "application-technology")
	require.NoError(t, err)
	// Both sides of the created (never resolved) junction are reported.
	require.Len(t, refs, 2)
	for _, ref := range refs {
		assert.NotEmpty(t, ref.Key.String())
	}
}

func TestTreeBuildsHierarchy(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	ctx := context.Background()

	seedEntity(t, entities, "capability", "CAP1", "Billing")
	seedEntity(t, entities, "capability", "CAP1.1", "Invoicing")
	seedEntity(t, entities, "capability", "CAP1.2", "Collections")
	seedEntity(t, entities, "capability", "CAP2", "HR")
	seedJunction(t, junctions, "capability-hierarchy", "capability", "CAP1", "capability", "CAP1.1", "")
	seedJunction(t, junctions, "capability-hierarchy", "capability", "CAP1", "capability", "CAP1.2", "")

	queries := NewQueries(entities, junctions, nil)

	nodes, err := queries.Tree(ctx, "capability-hierarchy")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Roots sorted by key: CAP1 with two children, CAP2 standing alone.
	assert.Equal(t, "CAP1", nodes[0].Entity.Key().String())
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "CAP1.1", nodes[0].Children[0].Entity.Key().String())
	assert.Equal(t, "CAP1.2", nodes[0].Children[1].Entity.Key().String())

	assert.Equal(t, "CAP2", nodes[1].Entity.Key().String())
	assert.Empty(t, nodes[1].Children)
}

func TestTreeEmptyJunctionType(t *testing.T) {
	queries := NewQueries(newFakeEntityStore(), newFakeJunctionStore(), nil)

	nodes, err := queries.Tree(context.Background(), "no-such-hierarchy")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}
