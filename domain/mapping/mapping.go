// Package mapping describes how spreadsheet columns map onto target fields.
// The import plan is the only schema contract with the outside world: column
// names are whatever the human preparer chose, and the plan binds them to
// typed target fields.
package mapping

import (
	"errors"
	"fmt"
)

// Errors reported while validating a plan's shape.
var (
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrLookupInEntity   = errors.New("entity mappings must not contain lookup fields")
	ErrMissingKeyColumn = errors.New("junction mapping requires both key columns")
)

// FieldType is the target type of a mapped field.
type FieldType string

// FieldType values.
const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDateTime FieldType = "datetime"
	FieldBoolean  FieldType = "boolean"
	FieldChoice   FieldType = "choice"
	FieldLookup   FieldType = "lookup"
	FieldUser     FieldType = "user"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDateTime, FieldBoolean, FieldChoice, FieldLookup, FieldUser:
		return true
	}
	return false
}

// FieldMapping binds one source column to one target field.
type FieldMapping struct {
	// Source is the column name in the spreadsheet header.
	Source string `yaml:"source"`
	// Target is the field name on the stored record.
	Target string `yaml:"target"`
	// Type selects the coercion applied by the validator.
	Type FieldType `yaml:"type"`
	// Required makes an empty cell a MissingRequiredField error instead of
	// a null value.
	Required bool `yaml:"required"`
	// MaxLength truncates text fields past this length (0 = no limit).
	// Truncation is a warning, not an error.
	MaxLength int `yaml:"max_length"`
	// Choices is the option set for choice fields.
	Choices []string `yaml:"choices"`
	// StrictChoices upgrades an unrecognized choice from warning to error.
	StrictChoices bool `yaml:"strict_choices"`
	// LookupCollection names the entity collection a lookup field must
	// resolve against at validation time.
	LookupCollection string `yaml:"lookup_collection"`
}

// Validate checks the mapping's own shape.
func (m FieldMapping) Validate() error {
	if m.Source == "" || m.Target == "" {
		return fmt.Errorf("field mapping %q -> %q: source and target are required", m.Source, m.Target)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("field %q: %w: %q", m.Target, ErrUnknownFieldType, m.Type)
	}
	if m.Type == FieldLookup && m.LookupCollection == "" {
		return fmt.Errorf("field %q: lookup fields require lookup_collection", m.Target)
	}
	return nil
}

// KeyColumn binds one side of a junction to an entity collection.
type KeyColumn struct {
	// Entity is the referenced entity collection.
	Entity string `yaml:"entity"`
	// Column is the spreadsheet column holding the business key.
	Column string `yaml:"column"`
}

// EntitySource describes one entity sheet to import.
type EntitySource struct {
	// Collection is the target entity collection name.
	Collection string `yaml:"collection"`
	// Sheet is the worksheet name (xlsx) — empty means the first sheet.
	Sheet string `yaml:"sheet"`
	// File optionally overrides the input file for this source.
	File string `yaml:"file"`
	// KeyColumn is the spreadsheet column holding the business key.
	KeyColumn string `yaml:"key_column"`
	// Fields are the descriptive field mappings.
	Fields []FieldMapping `yaml:"fields"`
}

// Validate checks the source's shape. Entity imports exclude lookup fields
// by construction: entities are flat and carry no references.
func (s EntitySource) Validate() error {
	if s.Collection == "" {
		return errors.New("entity source: collection is required")
	}
	if s.KeyColumn == "" {
		return fmt.Errorf("entity source %q: key_column is required", s.Collection)
	}
	for _, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("entity source %q: %w", s.Collection, err)
		}
		if f.Type == FieldLookup {
			return fmt.Errorf("entity source %q, field %q: %w", s.Collection, f.Target, ErrLookupInEntity)
		}
	}
	return nil
}

// JunctionSource describes one relationship sheet to import.
type JunctionSource struct {
	// Collection is the target junction collection name.
	Collection string `yaml:"collection"`
	// Sheet is the worksheet name (xlsx) — empty means the first sheet.
	Sheet string `yaml:"sheet"`
	// File optionally overrides the input file for this source.
	File string `yaml:"file"`
	// From and To bind the two key columns to entity collections.
	From KeyColumn `yaml:"from"`
	To   KeyColumn `yaml:"to"`
	// RelationColumn holds the relationship classification; empty means all
	// rows get DefaultRelation.
	RelationColumn string `yaml:"relation_column"`
	// DefaultRelation is used when RelationColumn is empty or the cell is
	// blank.
	DefaultRelation string `yaml:"default_relation"`
	// Fields are optional metadata mappings (notes, effective date,
	// criticality).
	Fields []FieldMapping `yaml:"fields"`
}

// Validate checks the source's shape.
func (s JunctionSource) Validate() error {
	if s.Collection == "" {
		return errors.New("junction source: collection is required")
	}
	if s.From.Column == "" || s.To.Column == "" {
		return fmt.Errorf("junction source %q: %w", s.Collection, ErrMissingKeyColumn)
	}
	if s.From.Entity == "" || s.To.Entity == "" {
		return fmt.Errorf("junction source %q: from.entity and to.entity are required", s.Collection)
	}
	for _, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("junction source %q: %w", s.Collection, err)
		}
	}
	return nil
}
