// Package catalog defines the entity side of the architecture catalog:
// entities identified by human-assigned business keys, plus the query
// option machinery shared by all stores.
package catalog

import "strings"

// BusinessKey is the human-assigned identifier of an entity (a short code or
// exact name), unique within its entity type. It is the only reliable join
// key until internal IDs have been resolved. Deliberately a distinct type
// from InternalID so the two can never be compared or substituted.
type BusinessKey string

// NewBusinessKey normalizes a raw cell value into a BusinessKey.
// Keys are compared after trimming surrounding whitespace.
func NewBusinessKey(raw string) BusinessKey {
	return BusinessKey(strings.TrimSpace(raw))
}

// String returns the key as a plain string.
func (k BusinessKey) String() string { return string(k) }

// IsEmpty returns true when no key is set.
func (k BusinessKey) IsEmpty() bool { return k == "" }

// InternalID is the store-assigned numeric identifier of a record. Zero
// means "not yet assigned" (an entity not persisted, or a junction side not
// yet resolved).
type InternalID int64

// Int64 returns the ID as a plain int64.
func (id InternalID) Int64() int64 { return int64(id) }

// IsZero returns true when the ID has not been assigned.
func (id InternalID) IsZero() bool { return id == 0 }

// EntityType names an entity collection (e.g. "capability", "application").
type EntityType string

// String returns the entity type as a plain string.
func (t EntityType) String() string { return string(t) }
