// Package service implements the import/resolution pipeline: row
// validation, batched two-phase import, business-key resolution, and the
// in-memory join query facade.
package service

import (
	"errors"
	"fmt"

	"github.com/archmapio/archmap/domain/catalog"
)

// ErrNoRecords indicates an import was invoked with nothing to write.
var ErrNoRecords = errors.New("no validated records to import")

// FieldErrorCode classifies per-field validation failures.
type FieldErrorCode string

// FieldErrorCode values.
const (
	CodeInvalidNumber        FieldErrorCode = "InvalidNumber"
	CodeInvalidDate          FieldErrorCode = "InvalidDate"
	CodeInvalidBoolean       FieldErrorCode = "InvalidBoolean"
	CodeInvalidEmail         FieldErrorCode = "InvalidEmail"
	CodeUnrecognizedChoice   FieldErrorCode = "UnrecognizedChoice"
	CodeLookupNotFound       FieldErrorCode = "LookupNotFound"
	CodeMissingRequiredField FieldErrorCode = "MissingRequiredField"
)

// FieldError is one validation failure. It carries everything a human needs
// to find and fix the offending cell: the 1-based source row number, the
// field name, and the raw value. A row with any FieldError is excluded from
// import, but all of its errors are still collected.
type FieldError struct {
	Row   int
	Field string
	Code  FieldErrorCode
	Raw   string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("row %d, field %q: %s (value %q)", e.Row, e.Field, e.Code, e.Raw)
}

// WarningCode classifies non-fatal validation findings.
type WarningCode string

// WarningCode values.
const (
	WarnTextTruncated        WarningCode = "TextTruncated"
	WarnUnrecognizedChoice   WarningCode = "UnrecognizedChoice"
	WarnDuplicateLookupMatch WarningCode = "DuplicateLookupMatch"
	WarnUnknownTarget        WarningCode = "UnknownTargetField"
)

// FieldWarning is a non-fatal validation finding; the row is still imported.
type FieldWarning struct {
	Row   int
	Field string
	Code  WarningCode
	Raw   string
}

// String returns a readable representation.
func (w FieldWarning) String() string {
	return fmt.Sprintf("row %d, field %q: %s (value %q)", w.Row, w.Field, w.Code, w.Raw)
}

// BatchError records a failed import batch. Batches are independent: one
// failure never aborts the batches after it.
type BatchError struct {
	Batch    int // 0-based batch index
	FirstRow int // 1-based source row number of the first row in the batch
	Err      error
}

// Error implements the error interface.
func (e BatchError) Error() string {
	return fmt.Sprintf("batch %d (starting row %d): %v", e.Batch, e.FirstRow, e.Err)
}

// Unwrap returns the underlying cause.
func (e BatchError) Unwrap() error { return e.Err }

// ReferenceSide names which end of a junction an unresolved key sits on.
type ReferenceSide string

// ReferenceSide values.
const (
	SideFrom ReferenceSide = "from"
	SideTo   ReferenceSide = "to"
)

// UnresolvedReference flags a junction row whose business key had no match
// at resolution time. The row stays in the store, state
// partially_unresolved, and is never silently dropped.
type UnresolvedReference struct {
	JunctionID catalog.InternalID
	Side       ReferenceSide
	Collection catalog.EntityType
	Key        catalog.BusinessKey
}

// String returns a readable representation.
func (u UnresolvedReference) String() string {
	return fmt.Sprintf("junction %d: %s key %q not found in %q",
		int64(u.JunctionID), u.Side, u.Key.String(), u.Collection.String())
}
