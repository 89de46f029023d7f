package catalog

import (
	"errors"
	"time"
)

// ErrEmptyBusinessKey indicates an entity was constructed without a key.
var ErrEmptyBusinessKey = errors.New("business key must not be empty")

// Status is the lifecycle status of an entity.
type Status string

// Status values.
const (
	StatusUnspecified Status = ""
	StatusActive      Status = "active"
	StatusPlanned     Status = "planned"
	StatusRetired     Status = "retired"
)

// Entity is one record of an entity collection. By design it carries no
// references to other entities — relationships live exclusively in junction
// records, keyed by business key. The flat shape keeps spreadsheet
// preparation simple for non-technical editors.
type Entity struct {
	id             InternalID
	entityType     EntityType
	key            BusinessKey
	name           string
	classification string
	owner          string
	description    string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

// NewEntity creates an unpersisted Entity (zero internal ID).
func NewEntity(entityType EntityType, key BusinessKey, name string) (Entity, error) {
	if key.IsEmpty() {
		return Entity{}, ErrEmptyBusinessKey
	}
	return Entity{
		entityType: entityType,
		key:        key,
		name:       name,
	}, nil
}

// ReconstructEntity rebuilds an Entity from stored fields.
func ReconstructEntity(
	id InternalID,
	entityType EntityType,
	key BusinessKey,
	name string,
	classification string,
	owner string,
	description string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Entity {
	return Entity{
		id:             id,
		entityType:     entityType,
		key:            key,
		name:           name,
		classification: classification,
		owner:          owner,
		description:    description,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the internal store ID (zero until persisted).
func (e Entity) ID() InternalID { return e.id }

// Type returns the entity collection this record belongs to.
func (e Entity) Type() EntityType { return e.entityType }

// Key returns the business key.
func (e Entity) Key() BusinessKey { return e.key }

// Name returns the display name.
func (e Entity) Name() string { return e.name }

// Classification returns the classification label.
func (e Entity) Classification() string { return e.classification }

// Owner returns the owner's email address.
func (e Entity) Owner() string { return e.owner }

// Description returns the free-text description.
func (e Entity) Description() string { return e.description }

// Status returns the lifecycle status.
func (e Entity) Status() Status { return e.status }

// CreatedAt returns the creation timestamp.
func (e Entity) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last-update timestamp.
func (e Entity) UpdatedAt() time.Time { return e.updatedAt }

// WithClassification returns a copy with the classification set.
func (e Entity) WithClassification(c string) Entity {
	e.classification = c
	return e
}

// WithOwner returns a copy with the owner email set.
func (e Entity) WithOwner(owner string) Entity {
	e.owner = owner
	return e
}

// WithDescription returns a copy with the description set.
func (e Entity) WithDescription(d string) Entity {
	e.description = d
	return e
}

// WithStatus returns a copy with the status set.
func (e Entity) WithStatus(s Status) Entity {
	e.status = s
	return e
}

// WithDescriptiveFields returns a copy of e carrying the descriptive fields
// of other, keeping its own identity (ID, type, key, timestamps). Used by
// upsert-by-business-key: re-importing a key updates the record in place.
func (e Entity) WithDescriptiveFields(other Entity) Entity {
	e.name = other.name
	e.classification = other.classification
	e.owner = other.owner
	e.description = other.description
	e.status = other.status
	return e
}
