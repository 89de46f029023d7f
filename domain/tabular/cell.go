// Package tabular models parsed spreadsheet data: tables of typed cells as
// detected by the source format, before any per-field validation.
package tabular

import (
	"fmt"
	"strconv"
	"time"
)

// CellKind tags the variant held by a Cell.
type CellKind int

// CellKind values.
const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindDate
	KindBool
)

// String returns a readable name for the kind.
func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "empty"
	}
}

// Cell is a tagged variant holding one raw spreadsheet value. Validators
// pattern-match on Kind to perform explicit per-field coercion.
type Cell struct {
	kind   CellKind
	text   string
	number float64
	date   time.Time
	truth  bool
}

// EmptyCell returns the empty variant.
func EmptyCell() Cell { return Cell{kind: KindEmpty} }

// TextCell returns a text variant. An empty string is still text — emptiness
// is decided by the source format, not by content.
func TextCell(s string) Cell { return Cell{kind: KindText, text: s} }

// NumberCell returns a number variant.
func NumberCell(f float64) Cell { return Cell{kind: KindNumber, number: f} }

// DateCell returns a date variant.
func DateCell(t time.Time) Cell { return Cell{kind: KindDate, date: t} }

// BoolCell returns a boolean variant.
func BoolCell(b bool) Cell { return Cell{kind: KindBool, truth: b} }

// Kind returns the variant tag.
func (c Cell) Kind() CellKind { return c.kind }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.kind == KindEmpty }

// Text returns the text value (only meaningful for KindText).
func (c Cell) Text() string { return c.text }

// Number returns the numeric value (only meaningful for KindNumber).
func (c Cell) Number() float64 { return c.number }

// Date returns the date value (only meaningful for KindDate).
func (c Cell) Date() time.Time { return c.date }

// Bool returns the boolean value (only meaningful for KindBool).
func (c Cell) Bool() bool { return c.truth }

// Raw returns the underlying value for error messages.
func (c Cell) Raw() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case KindDate:
		return c.date.Format(time.RFC3339)
	case KindBool:
		return strconv.FormatBool(c.truth)
	default:
		return ""
	}
}

// String implements fmt.Stringer for logs.
func (c Cell) String() string {
	if c.kind == KindEmpty {
		return "<empty>"
	}
	return fmt.Sprintf("%s(%s)", c.kind, c.Raw())
}
