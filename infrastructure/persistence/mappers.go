package persistence

import (
	"time"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
)

// EntityMapper maps between catalog.Entity and EntityModel.
type EntityMapper struct{}

// ToDomain converts an EntityModel to a catalog.Entity.
func (EntityMapper) ToDomain(m EntityModel) catalog.Entity {
	return catalog.ReconstructEntity(
		catalog.InternalID(m.ID),
		catalog.EntityType(m.EntityType),
		catalog.BusinessKey(m.BusinessKey),
		m.Name,
		m.Classification,
		m.Owner,
		m.Description,
		catalog.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// ToModel converts a catalog.Entity to an EntityModel.
func (EntityMapper) ToModel(e catalog.Entity) EntityModel {
	return EntityModel{
		ID:             e.ID().Int64(),
		EntityType:     e.Type().String(),
		BusinessKey:    e.Key().String(),
		Name:           e.Name(),
		Classification: e.Classification(),
		Owner:          e.Owner(),
		Description:    e.Description(),
		Status:         string(e.Status()),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}

// JunctionMapper maps between relation.Junction and JunctionModel.
type JunctionMapper struct{}

// ToDomain converts a JunctionModel to a relation.Junction.
func (JunctionMapper) ToDomain(m JunctionModel) relation.Junction {
	var fromID, toID catalog.InternalID
	if m.FromID != nil {
		fromID = catalog.InternalID(*m.FromID)
	}
	if m.ToID != nil {
		toID = catalog.InternalID(*m.ToID)
	}
	var effective time.Time
	if m.EffectiveDate != nil {
		effective = *m.EffectiveDate
	}
	return relation.ReconstructJunction(
		catalog.InternalID(m.ID),
		relation.JunctionType(m.JunctionType),
		catalog.EntityType(m.FromType), catalog.BusinessKey(m.FromKey), fromID,
		catalog.EntityType(m.ToType), catalog.BusinessKey(m.ToKey), toID,
		relation.RelationType(m.RelationType),
		m.Notes,
		effective,
		m.Criticality,
		relation.ResolutionState(m.State),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// ToModel converts a relation.Junction to a JunctionModel. Zero internal IDs
// map to NULL columns, which is what "unresolved" means in storage.
func (JunctionMapper) ToModel(j relation.Junction) JunctionModel {
	m := JunctionModel{
		ID:           j.ID().Int64(),
		JunctionType: j.Type().String(),
		FromType:     j.FromType().String(),
		ToType:       j.ToType().String(),
		FromKey:      j.FromKey().String(),
		ToKey:        j.ToKey().String(),
		RelationType: j.Relation().String(),
		Notes:        j.Notes(),
		Criticality:  j.Criticality(),
		State:        j.State().String(),
		CreatedAt:    j.CreatedAt(),
		UpdatedAt:    j.UpdatedAt(),
	}
	if !j.FromID().IsZero() {
		id := j.FromID().Int64()
		m.FromID = &id
	}
	if !j.ToID().IsZero() {
		id := j.ToID().Int64()
		m.ToID = &id
	}
	if !j.EffectiveDate().IsZero() {
		t := j.EffectiveDate()
		m.EffectiveDate = &t
	}
	return m
}

// RunMapper maps between importing.Run and RunModel.
type RunMapper struct{}

// ToDomain converts a RunModel to an importing.Run.
func (RunMapper) ToDomain(m RunModel) importing.Run {
	var finished time.Time
	if m.FinishedAt != nil {
		finished = *m.FinishedAt
	}
	return importing.ReconstructRun(
		m.ID,
		importing.RunKind(m.Kind),
		m.Collection,
		m.Created, m.Updated, m.Failed, m.Warnings,
		m.StartedAt,
		finished,
	)
}

// ToModel converts an importing.Run to a RunModel.
func (RunMapper) ToModel(r importing.Run) RunModel {
	m := RunModel{
		ID:         r.ID(),
		Kind:       string(r.Kind()),
		Collection: r.Collection(),
		Created:    r.Created(),
		Updated:    r.Updated(),
		Failed:     r.Failed(),
		Warnings:   r.Warnings(),
		StartedAt:  r.StartedAt(),
	}
	if !r.FinishedAt().IsZero() {
		t := r.FinishedAt()
		m.FinishedAt = &t
	}
	return m
}
