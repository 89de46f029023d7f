package service

import (
	"context"
	"log/slog"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
)

// ResolveReport is the outcome of one resolution sweep.
type ResolveReport struct {
	RunID      string
	Scanned    int
	Resolved   int
	Partial    int
	Unresolved []UnresolvedReference
}

// Resolver rewrites the resolved-ID fields of junction records from their
// business keys. Every run rebuilds its key maps from the live entity tables
// and sweeps every junction, so a resolved junction whose target entity has
// since disappeared is demoted again rather than left stale.
type Resolver struct {
	entities  catalog.EntityStore
	junctions relation.JunctionStore
	runs      importing.RunStore
	logger    *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(
	entities catalog.EntityStore,
	junctions relation.JunctionStore,
	runs importing.RunStore,
	logger *slog.Logger,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{entities: entities, junctions: junctions, runs: runs, logger: logger}
}

// ResolveAll sweeps every stored junction. Re-running against an unchanged
// store writes the same IDs and states again: the sweep is idempotent.
func (s *Resolver) ResolveAll(ctx context.Context) (ResolveReport, error) {
	return s.resolve(ctx, "", nil)
}

// ResolveType sweeps only the junctions of one collection.
func (s *Resolver) ResolveType(ctx context.Context, junctionType relation.JunctionType) (ResolveReport, error) {
	return s.resolve(ctx, junctionType, []relation.Option{relation.WithJunctionType(junctionType)})
}

func (s *Resolver) resolve(ctx context.Context, collection relation.JunctionType, options []relation.Option) (ResolveReport, error) {
	run := importing.NewRun(importing.RunResolve, collection.String())
	run, err := s.runs.Save(ctx, run)
	if err != nil {
		return ResolveReport{}, err
	}

	junctions, err := s.junctions.Find(ctx, options...)
	if err != nil {
		return ResolveReport{}, err
	}

	keys, err := s.buildKeyMaps(ctx, junctions)
	if err != nil {
		return ResolveReport{}, err
	}

	report := ResolveReport{RunID: run.ID(), Scanned: len(junctions)}

	for _, junction := range junctions {
		fromID, fromOK := keys[junction.FromType()][junction.FromKey()]
		toID, toOK := keys[junction.ToType()][junction.ToKey()]

		var updated relation.Junction
		if fromOK && toOK {
			updated = junction.Resolve(fromID, toID)
			report.Resolved++
		} else {
			// A missing side is nulled out; the other side still resolves.
			updated = junction.ResolvePartial(fromID, toID)
			report.Partial++
			if !fromOK {
				report.Unresolved = append(report.Unresolved, UnresolvedReference{
					JunctionID: junction.ID(),
					Side:       SideFrom,
					Collection: junction.FromType(),
					Key:        junction.FromKey(),
				})
			}
			if !toOK {
				report.Unresolved = append(report.Unresolved, UnresolvedReference{
					JunctionID: junction.ID(),
					Side:       SideTo,
					Collection: junction.ToType(),
					Key:        junction.ToKey(),
				})
			}
		}

		if err := s.junctions.SaveResolution(ctx, updated); err != nil {
			return report, err
		}
	}

	s.logger.Info("resolution swept",
		"scanned", report.Scanned,
		"resolved", report.Resolved,
		"partial", report.Partial,
		"unresolved_refs", len(report.Unresolved),
	)

	run = run.Finish(0, report.Resolved+report.Partial, 0, len(report.Unresolved))
	if _, err := s.runs.Save(ctx, run); err != nil {
		return report, err
	}
	return report, nil
}

// buildKeyMaps loads key->ID maps for every entity type the junctions
// reference. Maps are rebuilt fresh each run; nothing is cached across runs.
func (s *Resolver) buildKeyMaps(ctx context.Context, junctions []relation.Junction) (map[catalog.EntityType]map[catalog.BusinessKey]catalog.InternalID, error) {
	types := make(map[catalog.EntityType]struct{})
	for _, j := range junctions {
		types[j.FromType()] = struct{}{}
		types[j.ToType()] = struct{}{}
	}

	keys := make(map[catalog.EntityType]map[catalog.BusinessKey]catalog.InternalID, len(types))
	for entityType := range types {
		entities, err := s.entities.Find(ctx, catalog.WithEntityType(entityType))
		if err != nil {
			return nil, err
		}
		byKey := make(map[catalog.BusinessKey]catalog.InternalID, len(entities))
		for _, e := range entities {
			byKey[e.Key()] = e.ID()
		}
		keys[entityType] = byKey
	}
	return keys, nil
}
