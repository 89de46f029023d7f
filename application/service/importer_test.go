package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archmapio/archmap/domain/catalog"
)

func entityRecord(row int, key, name string) Record {
	rec := NewRecord(row)
	rec.set(TargetBusinessKey, key)
	rec.set(TargetName, name)
	return rec
}

func junctionRecord(row int, fromKey, toKey, rel string) Record {
	rec := NewRecord(row)
	rec.set(TargetFromKey, fromKey)
	rec.set(TargetToKey, toKey)
	if rel != "" {
		rec.set(TargetRelation, rel)
	}
	return rec
}

func TestImportEntitiesCreatesAndUpdates(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	runs := &fakeRunStore{}
	importer := NewImporter(entities, junctions, runs, 10, nil)
	ctx := context.Background()

	report, err := importer.ImportEntities(ctx, EntityImportParams{
		Collection: "application",
		Records: []Record{
			entityRecord(2, "APP1", "Billing Service"),
			entityRecord(3, "APP2", "Ledger"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Failed)

	// Re-importing the same keys updates in place, preserving internal IDs.
	before, err := entities.FindOne(ctx, catalog.WithBusinessKey("APP1"))
	require.NoError(t, err)

	report, err = importer.ImportEntities(ctx, EntityImportParams{
		Collection: "application",
		Records: []Record{
			entityRecord(2, "APP1", "Billing Service v2"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)

	after, err := entities.FindOne(ctx, catalog.WithBusinessKey("APP1"))
	require.NoError(t, err)
	assert.Equal(t, before.ID(), after.ID())
	assert.Equal(t, "Billing Service v2", after.Name())

	// Two runs recorded, one per invocation.
	saved, err := runs.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestImportEntitiesBatchIsolation(t *testing.T) {
	entities := newFakeEntityStore()
	entities.failKeys["E7"] = errors.New("disk full")
	junctions := newFakeJunctionStore()
	runs := &fakeRunStore{}

	// Batch size 5 over 15 records: the failing key lands in batch 2 (index 1)
	// and must not stop batches 0 and 2 from importing.
	importer := NewImporter(entities, junctions, runs, 5, nil)

	var records []Record
	for i := 1; i <= 15; i++ {
		records = append(records, entityRecord(i+1, fmt.Sprintf("E%d", i), fmt.Sprintf("Entity %d", i)))
	}

	report, err := importer.ImportEntities(context.Background(), EntityImportParams{
		Collection: "application",
		Records:    records,
	})
	require.NoError(t, err)

	assert.Equal(t, 14, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.BatchErrors, 1)
	assert.Equal(t, 1, report.BatchErrors[0].Batch)
	assert.ErrorContains(t, report.BatchErrors[0].Err, "disk full")

	// Rows from the batches around the failure are all present.
	count, err := entities.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(14), count)
}

func TestImportJunctionsLeavesResolutionUntouched(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	runs := &fakeRunStore{}
	importer := NewImporter(entities, junctions, runs, 10, nil)
	ctx := context.Background()

	report, err := importer.ImportJunctions(ctx, JunctionImportParams{
		Collection: "capability-application",
		FromType:   "capability",
		ToType:     "application",
		Records: []Record{
			junctionRecord(2, "CAP1", "APP1", "primary"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	stored, err := junctions.FindOne(ctx)
	require.NoError(t, err)
	assert.True(t, stored.FromID().IsZero())
	assert.True(t, stored.ToID().IsZero())
	assert.Equal(t, "created", stored.State().String())

	// Re-import replaces metadata only; the identity tuple stays one row.
	rec := junctionRecord(2, "CAP1", "APP1", "primary")
	rec.set(TargetNotes, "updated note")
	report, err = importer.ImportJunctions(ctx, JunctionImportParams{
		Collection: "capability-application",
		FromType:   "capability",
		ToType:     "application",
		Records:    []Record{rec},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)

	count, err := junctions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err = junctions.FindOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, "updated note", stored.Notes())
}

func TestImportRejectsEmptyRecordSet(t *testing.T) {
	runs := &fakeRunStore{}
	importer := NewImporter(newFakeEntityStore(), newFakeJunctionStore(), runs, 10, nil)
	ctx := context.Background()

	_, err := importer.ImportEntities(ctx, EntityImportParams{Collection: "application"})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = importer.ImportJunctions(ctx, JunctionImportParams{
		Collection: "capability-application",
		FromType:   "capability",
		ToType:     "application",
	})
	assert.ErrorIs(t, err, ErrNoRecords)

	// Nothing to import means no run record either.
	saved, err := runs.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestImportEntitiesRejectsEmptyKeyRow(t *testing.T) {
	entities := newFakeEntityStore()
	junctions := newFakeJunctionStore()
	runs := &fakeRunStore{}
	importer := NewImporter(entities, junctions, runs, 10, nil)

	report, err := importer.ImportEntities(context.Background(), EntityImportParams{
		Collection: "application",
		Records: []Record{
			entityRecord(2, "", "No Key"),
			entityRecord(3, "APP1", "Billing"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.BatchErrors, 1)
	assert.ErrorIs(t, report.BatchErrors[0].Err, catalog.ErrEmptyBusinessKey)
}
