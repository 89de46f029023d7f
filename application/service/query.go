package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/relation"
)

// Direction selects which junction sides a related-entities query follows.
type Direction string

// Direction values.
const (
	DirectionBoth     Direction = "both"
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// RelatedParams configures a related-entities query.
type RelatedParams struct {
	EntityType catalog.EntityType
	Key        catalog.BusinessKey
	// JunctionType narrows to one junction collection; empty means all.
	JunctionType relation.JunctionType
	// Relation narrows to one relationship classification; empty means all.
	Relation relation.RelationType
	// Direction defaults to DirectionBoth.
	Direction Direction
}

// RelatedEntity pairs a related entity with the junction that links it.
type RelatedEntity struct {
	Entity    catalog.Entity
	Junction  relation.Junction
	Direction Direction
}

// TreeNode is one entity in a hierarchy, with its children.
type TreeNode struct {
	Entity   catalog.Entity
	Children []TreeNode
}

// Queries is the read facade over the catalog. The backing store has no join
// primitive, so relationships are traversed in two steps: junction rows by
// business key, then entities by the keys found. An unknown key yields an
// empty result, never an error.
type Queries struct {
	entities  catalog.EntityStore
	junctions relation.JunctionStore
	logger    *slog.Logger
}

// NewQueries creates the read facade.
func NewQueries(entities catalog.EntityStore, junctions relation.JunctionStore, logger *slog.Logger) *Queries {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queries{entities: entities, junctions: junctions, logger: logger}
}

// Related returns the entities linked to one entity through junction records,
// joined by business key. Junctions whose opposite key resolves to no stored
// entity are skipped here; Unresolved surfaces them.
func (s *Queries) Related(ctx context.Context, params RelatedParams) ([]RelatedEntity, error) {
	direction := params.Direction
	if direction == "" {
		direction = DirectionBoth
	}

	common := []relation.Option{}
	if params.JunctionType != "" {
		common = append(common, relation.WithJunctionType(params.JunctionType))
	}
	if params.Relation != "" {
		common = append(common, relation.WithRelation(params.Relation))
	}

	type hit struct {
		junction  relation.Junction
		direction Direction
		entityTyp catalog.EntityType
		key       catalog.BusinessKey
	}
	var hits []hit

	if direction == DirectionBoth || direction == DirectionOutgoing {
		outgoing, err := s.junctions.Find(ctx, append(common,
			relation.WithFromType(params.EntityType),
			relation.WithFromKey(params.Key),
		)...)
		if err != nil {
			return nil, err
		}
		for _, j := range outgoing {
			hits = append(hits, hit{junction: j, direction: DirectionOutgoing, entityTyp: j.ToType(), key: j.ToKey()})
		}
	}

	if direction == DirectionBoth || direction == DirectionIncoming {
		incoming, err := s.junctions.Find(ctx, append(common,
			relation.WithToType(params.EntityType),
			relation.WithToKey(params.Key),
		)...)
		if err != nil {
			return nil, err
		}
		for _, j := range incoming {
			hits = append(hits, hit{junction: j, direction: DirectionIncoming, entityTyp: j.FromType(), key: j.FromKey()})
		}
	}

	if len(hits) == 0 {
		return nil, nil
	}

	// Second step of the in-memory join: fetch the opposite-side entities by
	// key, one query per entity type.
	keysByType := make(map[catalog.EntityType][]catalog.BusinessKey)
	for _, h := range hits {
		keysByType[h.entityTyp] = append(keysByType[h.entityTyp], h.key)
	}

	found := make(map[catalog.EntityType]map[catalog.BusinessKey]catalog.Entity, len(keysByType))
	for entityType, keys := range keysByType {
		entities, err := s.entities.Find(ctx,
			catalog.WithEntityType(entityType),
			catalog.WithBusinessKeyIn(keys),
		)
		if err != nil {
			return nil, err
		}
		byKey := make(map[catalog.BusinessKey]catalog.Entity, len(entities))
		for _, e := range entities {
			byKey[e.Key()] = e
		}
		found[entityType] = byKey
	}

	var related []RelatedEntity
	for _, h := range hits {
		entity, ok := found[h.entityTyp][h.key]
		if !ok {
			continue
		}
		related = append(related, RelatedEntity{Entity: entity, Junction: h.junction, Direction: h.direction})
	}
	return related, nil
}

// Unresolved returns the dangling references of every junction that is not
// fully resolved. junctionType narrows to one collection; empty means all.
func (s *Queries) Unresolved(ctx context.Context, junctionType relation.JunctionType) ([]UnresolvedReference, error) {
	options := []relation.Option{
		relation.WithStateIn(relation.StateCreated, relation.StatePartiallyUnresolved),
	}
	if junctionType != "" {
		options = append(options, relation.WithJunctionType(junctionType))
	}

	junctions, err := s.junctions.Find(ctx, options...)
	if err != nil {
		return nil, err
	}

	var refs []UnresolvedReference
	for _, j := range junctions {
		if j.FromID().IsZero() {
			refs = append(refs, UnresolvedReference{
				JunctionID: j.ID(),
				Side:       SideFrom,
				Collection: j.FromType(),
				Key:        j.FromKey(),
			})
		}
		if j.ToID().IsZero() {
			refs = append(refs, UnresolvedReference{
				JunctionID: j.ID(),
				Side:       SideTo,
				Collection: j.ToType(),
				Key:        j.ToKey(),
			})
		}
	}
	return refs, nil
}

// Tree assembles the hierarchy encoded by one junction collection whose two
// sides reference the same entity type (from = parent, to = child). Roots are
// entities that never appear as a child, sorted by business key; so are
// children within each node. Entities referenced by key but missing from the
// store are skipped.
func (s *Queries) Tree(ctx context.Context, junctionType relation.JunctionType) ([]TreeNode, error) {
	junctions, err := s.junctions.Find(ctx, relation.WithJunctionType(junctionType))
	if err != nil {
		return nil, err
	}
	if len(junctions) == 0 {
		return nil, nil
	}

	entityType := junctions[0].FromType()
	entities, err := s.entities.Find(ctx, catalog.WithEntityType(entityType))
	if err != nil {
		return nil, err
	}

	byKey := make(map[catalog.BusinessKey]catalog.Entity, len(entities))
	for _, e := range entities {
		byKey[e.Key()] = e
	}

	children := make(map[catalog.BusinessKey][]catalog.BusinessKey)
	isChild := make(map[catalog.BusinessKey]bool)
	for _, j := range junctions {
		if !j.IsHierarchy() {
			continue
		}
		children[j.FromKey()] = append(children[j.FromKey()], j.ToKey())
		isChild[j.ToKey()] = true
	}

	var roots []catalog.BusinessKey
	for key := range byKey {
		if !isChild[key] {
			roots = append(roots, key)
		}
	}
	sort.Slice(roots, func(i, k int) bool { return roots[i] < roots[k] })

	nodes := make([]TreeNode, 0, len(roots))
	for _, key := range roots {
		// Only rooted entities that parent something or stand alone appear;
		// the visited set guards against key cycles in the source data.
		nodes = append(nodes, s.buildNode(key, byKey, children, map[catalog.BusinessKey]bool{}))
	}
	return nodes, nil
}

func (s *Queries) buildNode(
	key catalog.BusinessKey,
	byKey map[catalog.BusinessKey]catalog.Entity,
	children map[catalog.BusinessKey][]catalog.BusinessKey,
	visited map[catalog.BusinessKey]bool,
) TreeNode {
	visited[key] = true
	node := TreeNode{Entity: byKey[key]}

	childKeys := append([]catalog.BusinessKey(nil), children[key]...)
	sort.Slice(childKeys, func(i, k int) bool { return childKeys[i] < childKeys[k] })

	for _, child := range childKeys {
		if visited[child] {
			continue
		}
		if _, ok := byKey[child]; !ok {
			continue
		}
		node.Children = append(node.Children, s.buildNode(child, byKey, children, visited))
	}
	return node
}
