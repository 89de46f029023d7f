// Package relation defines junction records: rows that relate two entities
// by business key and, after resolution, by internal ID.
package relation

import (
	"errors"
	"time"

	"github.com/archmapio/archmap/domain/catalog"
)

// ErrMissingKey indicates a junction was constructed without both keys.
var ErrMissingKey = errors.New("junction requires both business keys")

// JunctionType names a junction collection (e.g. "capability-application").
type JunctionType string

// String returns the junction type as a plain string.
func (t JunctionType) String() string { return string(t) }

// RelationType classifies a relationship within a junction collection
// (e.g. "primary" vs "supporting").
type RelationType string

// String returns the relation type as a plain string.
func (t RelationType) String() string { return string(t) }

// Junction relates two entities. The business keys are set at import time
// and are immutable thereafter; the resolved internal IDs are written only
// by the resolver and may be overwritten by later resolver runs. A junction
// whose from and to entity types are equal is a hierarchy relation
// (parent/child within one collection).
type Junction struct {
	id            catalog.InternalID
	junctionType  JunctionType
	fromType      catalog.EntityType
	toType        catalog.EntityType
	fromKey       catalog.BusinessKey
	toKey         catalog.BusinessKey
	fromID        catalog.InternalID
	toID          catalog.InternalID
	relationType  RelationType
	notes         string
	effectiveDate time.Time
	criticality   string
	state         ResolutionState
	createdAt     time.Time
	updatedAt     time.Time
}

// NewJunction creates an unpersisted, unresolved Junction.
func NewJunction(
	junctionType JunctionType,
	fromType catalog.EntityType, fromKey catalog.BusinessKey,
	toType catalog.EntityType, toKey catalog.BusinessKey,
	relationType RelationType,
) (Junction, error) {
	if fromKey.IsEmpty() || toKey.IsEmpty() {
		return Junction{}, ErrMissingKey
	}
	return Junction{
		junctionType: junctionType,
		fromType:     fromType,
		toType:       toType,
		fromKey:      fromKey,
		toKey:        toKey,
		relationType: relationType,
		state:        StateCreated,
	}, nil
}

// ReconstructJunction rebuilds a Junction from stored fields.
func ReconstructJunction(
	id catalog.InternalID,
	junctionType JunctionType,
	fromType catalog.EntityType, fromKey catalog.BusinessKey, fromID catalog.InternalID,
	toType catalog.EntityType, toKey catalog.BusinessKey, toID catalog.InternalID,
	relationType RelationType,
	notes string,
	effectiveDate time.Time,
	criticality string,
	state ResolutionState,
	createdAt, updatedAt time.Time,
) Junction {
	return Junction{
		id:            id,
		junctionType:  junctionType,
		fromType:      fromType,
		toType:        toType,
		fromKey:       fromKey,
		toKey:         toKey,
		fromID:        fromID,
		toID:          toID,
		relationType:  relationType,
		notes:         notes,
		effectiveDate: effectiveDate,
		criticality:   criticality,
		state:         state,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the internal store ID (zero until persisted).
func (j Junction) ID() catalog.InternalID { return j.id }

// Type returns the junction collection this record belongs to.
func (j Junction) Type() JunctionType { return j.junctionType }

// FromType returns the entity type of the from side.
func (j Junction) FromType() catalog.EntityType { return j.fromType }

// ToType returns the entity type of the to side.
func (j Junction) ToType() catalog.EntityType { return j.toType }

// FromKey returns the business key of the from side.
func (j Junction) FromKey() catalog.BusinessKey { return j.fromKey }

// ToKey returns the business key of the to side.
func (j Junction) ToKey() catalog.BusinessKey { return j.toKey }

// FromID returns the resolved internal ID of the from side (zero if
// unresolved).
func (j Junction) FromID() catalog.InternalID { return j.fromID }

// ToID returns the resolved internal ID of the to side (zero if unresolved).
func (j Junction) ToID() catalog.InternalID { return j.toID }

// Relation returns the relationship classification.
func (j Junction) Relation() RelationType { return j.relationType }

// Notes returns the free-text notes.
func (j Junction) Notes() string { return j.notes }

// EffectiveDate returns the effective date (zero when unset).
func (j Junction) EffectiveDate() time.Time { return j.effectiveDate }

// Criticality returns the criticality label.
func (j Junction) Criticality() string { return j.criticality }

// State returns the resolution state.
func (j Junction) State() ResolutionState { return j.state }

// CreatedAt returns the creation timestamp.
func (j Junction) CreatedAt() time.Time { return j.createdAt }

// UpdatedAt returns the last-update timestamp.
func (j Junction) UpdatedAt() time.Time { return j.updatedAt }

// IsHierarchy reports whether both sides reference the same entity type.
func (j Junction) IsHierarchy() bool { return j.fromType == j.toType }

// WithNotes returns a copy with the notes set.
func (j Junction) WithNotes(notes string) Junction {
	j.notes = notes
	return j
}

// WithEffectiveDate returns a copy with the effective date set.
func (j Junction) WithEffectiveDate(t time.Time) Junction {
	j.effectiveDate = t
	return j
}

// WithCriticality returns a copy with the criticality set.
func (j Junction) WithCriticality(c string) Junction {
	j.criticality = c
	return j
}

// WithMetadataFrom returns a copy of j carrying the metadata fields of
// other, keeping identity, keys and resolution. Used by upsert on re-import.
func (j Junction) WithMetadataFrom(other Junction) Junction {
	j.notes = other.notes
	j.effectiveDate = other.effectiveDate
	j.criticality = other.criticality
	return j
}

// Resolve returns a copy with both resolved IDs written and the state set to
// StateResolved. Prior resolved IDs are overwritten; resolution is the only
// operation allowed to touch these fields.
func (j Junction) Resolve(fromID, toID catalog.InternalID) Junction {
	j.fromID = fromID
	j.toID = toID
	j.state = StateResolved
	return j
}

// ResolvePartial returns a copy where each side is either resolved or nulled
// out, and the state set to StatePartiallyUnresolved. A zero InternalID
// clears the corresponding side.
func (j Junction) ResolvePartial(fromID, toID catalog.InternalID) Junction {
	j.fromID = fromID
	j.toID = toID
	j.state = StatePartiallyUnresolved
	return j
}
