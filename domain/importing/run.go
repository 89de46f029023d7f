// Package importing records pipeline invocations for operator traceability.
package importing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/archmapio/archmap/domain/catalog"
)

// RunKind distinguishes pipeline phases.
type RunKind string

// RunKind values.
const (
	RunImportEntities  RunKind = "import_entities"
	RunImportJunctions RunKind = "import_junctions"
	RunResolve         RunKind = "resolve"
)

// Run is one pipeline invocation: a single phase executed start to finish.
// There is no automated retry — a failed run is corrected by fixing the
// source spreadsheet and re-running the phase.
type Run struct {
	id         string
	kind       RunKind
	collection string
	created    int
	updated    int
	failed     int
	warnings   int
	startedAt  time.Time
	finishedAt time.Time
}

// NewRun starts a run record for a phase against a collection.
func NewRun(kind RunKind, collection string) Run {
	return Run{
		id:         uuid.NewString(),
		kind:       kind,
		collection: collection,
		startedAt:  time.Now().UTC(),
	}
}

// ReconstructRun rebuilds a Run from stored fields.
func ReconstructRun(id string, kind RunKind, collection string, created, updated, failed, warnings int, startedAt, finishedAt time.Time) Run {
	return Run{
		id:         id,
		kind:       kind,
		collection: collection,
		created:    created,
		updated:    updated,
		failed:     failed,
		warnings:   warnings,
		startedAt:  startedAt,
		finishedAt: finishedAt,
	}
}

// ID returns the run's UUID.
func (r Run) ID() string { return r.id }

// Kind returns the phase kind.
func (r Run) Kind() RunKind { return r.kind }

// Collection returns the target collection name.
func (r Run) Collection() string { return r.collection }

// Created returns the number of rows created.
func (r Run) Created() int { return r.created }

// Updated returns the number of rows updated.
func (r Run) Updated() int { return r.updated }

// Failed returns the number of rows that failed.
func (r Run) Failed() int { return r.failed }

// Warnings returns the number of warnings emitted.
func (r Run) Warnings() int { return r.warnings }

// StartedAt returns when the run began.
func (r Run) StartedAt() time.Time { return r.startedAt }

// FinishedAt returns when the run completed (zero while running).
func (r Run) FinishedAt() time.Time { return r.finishedAt }

// Finish returns a copy with final counts and the finish timestamp.
func (r Run) Finish(created, updated, failed, warnings int) Run {
	r.created = created
	r.updated = updated
	r.failed = failed
	r.warnings = warnings
	r.finishedAt = time.Now().UTC()
	return r
}

// RunStore persists run records.
type RunStore interface {
	Save(ctx context.Context, run Run) (Run, error)
	Find(ctx context.Context, options ...catalog.Option) ([]Run, error)
}
