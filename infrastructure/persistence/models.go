// Package persistence provides database storage implementations.
package persistence

import "time"

// EntityModel is the database model for catalog entities. The
// (entity_type, business_key) pair is unique: business keys are the stable
// external identity of a row, internal IDs are assigned by the store.
type EntityModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	EntityType     string `gorm:"size:64;not null;uniqueIndex:idx_entities_type_key"`
	BusinessKey    string `gorm:"size:255;not null;uniqueIndex:idx_entities_type_key"`
	Name           string `gorm:"size:255"`
	Classification string `gorm:"size:64"`
	Owner          string `gorm:"size:255"`
	Description    string
	Status         string `gorm:"size:32"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for EntityModel.
func (EntityModel) TableName() string { return "entities" }

// JunctionModel is the database model for junction rows. FromID and ToID are
// nullable on purpose: they stay NULL until the resolver matches the
// business keys, and are nulled again when a later resolver run no longer
// finds a match. No database-level foreign keys exist — referential
// integrity is reimplemented in the application layer.
type JunctionModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	JunctionType  string `gorm:"size:64;not null;uniqueIndex:idx_junctions_identity"`
	FromType      string `gorm:"size:64;not null"`
	ToType        string `gorm:"size:64;not null"`
	FromKey       string `gorm:"size:255;not null;uniqueIndex:idx_junctions_identity;index"`
	ToKey         string `gorm:"size:255;not null;uniqueIndex:idx_junctions_identity;index"`
	FromID        *int64
	ToID          *int64
	RelationType  string `gorm:"size:64;uniqueIndex:idx_junctions_identity"`
	Notes         string
	EffectiveDate *time.Time
	Criticality   string `gorm:"size:32"`
	State         string `gorm:"size:32;not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for JunctionModel.
func (JunctionModel) TableName() string { return "junctions" }

// RunModel is the database model for pipeline run records.
type RunModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	Kind       string `gorm:"size:32;not null;index"`
	Collection string `gorm:"size:64"`
	Created    int
	Updated    int
	Failed     int
	Warnings   int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// TableName returns the table name for RunModel.
func (RunModel) TableName() string { return "runs" }
