package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
)

// Recognized target field names for entity records.
const (
	TargetBusinessKey    = "business_key"
	TargetName           = "name"
	TargetClassification = "classification"
	TargetOwner          = "owner"
	TargetDescription    = "description"
	TargetStatus         = "status"
)

// Recognized target field names for junction keys and metadata.
const (
	TargetFromKey       = "from_key"
	TargetToKey         = "to_key"
	TargetRelation      = "relation_type"
	TargetNotes         = "notes"
	TargetEffectiveDate = "effective_date"
	TargetCriticality   = "criticality"
)

// ImportReport is the outcome of one import phase. Batches are independent:
// a failed batch is reported here and the phases after it still ran.
type ImportReport struct {
	RunID       string
	Collection  string
	Created     int
	Updated     int
	Failed      int
	BatchErrors []BatchError
}

// EntityImportParams configures one entity import.
type EntityImportParams struct {
	Collection catalog.EntityType
	Records    []Record
}

// JunctionImportParams configures one junction import.
type JunctionImportParams struct {
	Collection relation.JunctionType
	FromType   catalog.EntityType
	ToType     catalog.EntityType
	Records    []Record
}

// Importer writes validated records to storage in independent batches.
// It owns entity-table writes during phase one and junction-table writes
// during phase two; it never touches resolved-ID fields.
type Importer struct {
	entities  catalog.EntityStore
	junctions relation.JunctionStore
	runs      importing.RunStore
	batchSize int
	logger    *slog.Logger
}

// NewImporter creates an Importer. batchSize <= 0 falls back to 100.
func NewImporter(
	entities catalog.EntityStore,
	junctions relation.JunctionStore,
	runs importing.RunStore,
	batchSize int,
	logger *slog.Logger,
) *Importer {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		entities:  entities,
		junctions: junctions,
		runs:      runs,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ImportEntities writes validated entity records to the named collection.
// Records never carry relationship fields — entity mappings exclude lookups
// by construction. An empty record set is ErrNoRecords: no run is recorded.
func (s *Importer) ImportEntities(ctx context.Context, params EntityImportParams) (ImportReport, error) {
	if len(params.Records) == 0 {
		return ImportReport{}, ErrNoRecords
	}

	run := importing.NewRun(importing.RunImportEntities, params.Collection.String())
	run, err := s.runs.Save(ctx, run)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{RunID: run.ID(), Collection: params.Collection.String()}

	s.forEachBatch(ctx, params.Records, &report, func(batchCtx context.Context, rec Record) error {
		entity, err := entityFromRecord(params.Collection, rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.Row(), err)
		}
		_, created, err := s.entities.Upsert(batchCtx, entity)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.Row(), err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
		return nil
	})

	s.logger.Info("entities imported",
		"collection", params.Collection.String(),
		"created", report.Created,
		"updated", report.Updated,
		"failed", report.Failed,
	)

	run = run.Finish(report.Created, report.Updated, report.Failed, 0)
	if _, err := s.runs.Save(ctx, run); err != nil {
		return report, err
	}
	return report, nil
}

// ImportJunctions writes validated junction records. Resolved-ID fields are
// left null: this phase must run after the referenced entity collections
// imported, but the importer itself does not verify that — resolution is
// deferred to the resolver by design.
func (s *Importer) ImportJunctions(ctx context.Context, params JunctionImportParams) (ImportReport, error) {
	if len(params.Records) == 0 {
		return ImportReport{}, ErrNoRecords
	}

	run := importing.NewRun(importing.RunImportJunctions, params.Collection.String())
	run, err := s.runs.Save(ctx, run)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{RunID: run.ID(), Collection: params.Collection.String()}

	s.forEachBatch(ctx, params.Records, &report, func(batchCtx context.Context, rec Record) error {
		junction, err := junctionFromRecord(params, rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.Row(), err)
		}
		_, created, err := s.junctions.Upsert(batchCtx, junction)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.Row(), err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
		return nil
	})

	s.logger.Info("junctions imported",
		"collection", params.Collection.String(),
		"created", report.Created,
		"updated", report.Updated,
		"failed", report.Failed,
	)

	run = run.Finish(report.Created, report.Updated, report.Failed, 0)
	if _, err := s.runs.Save(ctx, run); err != nil {
		return report, err
	}
	return report, nil
}

// forEachBatch walks records in batches, applying write per record. A
// record's failure fails its batch entry in the report but never aborts the
// batches after it. Context cancellation is checked between batches so a
// stalled store cannot wedge the whole run.
func (s *Importer) forEachBatch(ctx context.Context, records []Record, report *ImportReport, write func(context.Context, Record) error) {
	for batch := 0; batch*s.batchSize < len(records); batch++ {
		start := batch * s.batchSize
		end := min(start+s.batchSize, len(records))
		rows := records[start:end]

		if err := ctx.Err(); err != nil {
			report.Failed += len(records) - start
			report.BatchErrors = append(report.BatchErrors, BatchError{
				Batch:    batch,
				FirstRow: rows[0].Row(),
				Err:      err,
			})
			return
		}

		var batchErr error
		for _, rec := range rows {
			if err := write(ctx, rec); err != nil {
				report.Failed++
				if batchErr == nil {
					batchErr = err
				}
			}
		}
		if batchErr != nil {
			report.BatchErrors = append(report.BatchErrors, BatchError{
				Batch:    batch,
				FirstRow: rows[0].Row(),
				Err:      batchErr,
			})
			s.logger.Warn("import batch had failures", "batch", batch, "error", batchErr)
		}
	}
}

// isEntityTarget reports whether entityFromRecord reads the target.
func isEntityTarget(target string) bool {
	switch target {
	case TargetBusinessKey, TargetName, TargetClassification,
		TargetOwner, TargetDescription, TargetStatus:
		return true
	}
	return false
}

// isJunctionTarget reports whether junctionFromRecord reads the target.
func isJunctionTarget(target string) bool {
	switch target {
	case TargetFromKey, TargetToKey, TargetRelation,
		TargetNotes, TargetEffectiveDate, TargetCriticality:
		return true
	}
	return false
}

// entityFromRecord maps recognized targets onto a catalog.Entity.
func entityFromRecord(collection catalog.EntityType, rec Record) (catalog.Entity, error) {
	key := catalog.NewBusinessKey(rec.String(TargetBusinessKey))
	entity, err := catalog.NewEntity(collection, key, rec.String(TargetName))
	if err != nil {
		return catalog.Entity{}, err
	}
	return entity.
		WithClassification(rec.String(TargetClassification)).
		WithOwner(rec.String(TargetOwner)).
		WithDescription(rec.String(TargetDescription)).
		WithStatus(catalog.Status(rec.String(TargetStatus))), nil
}

// junctionFromRecord maps key and metadata targets onto a relation.Junction.
func junctionFromRecord(params JunctionImportParams, rec Record) (relation.Junction, error) {
	junction, err := relation.NewJunction(
		params.Collection,
		params.FromType, catalog.NewBusinessKey(rec.String(TargetFromKey)),
		params.ToType, catalog.NewBusinessKey(rec.String(TargetToKey)),
		relation.RelationType(rec.String(TargetRelation)),
	)
	if err != nil {
		return relation.Junction{}, err
	}
	junction = junction.
		WithNotes(rec.String(TargetNotes)).
		WithCriticality(rec.String(TargetCriticality))
	if t := rec.Time(TargetEffectiveDate); !t.IsZero() {
		junction = junction.WithEffectiveDate(t)
	}
	return junction, nil
}
