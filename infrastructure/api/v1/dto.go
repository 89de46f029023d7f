package v1

import (
	"time"

	"github.com/archmapio/archmap/application/service"
	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/importing"
	"github.com/archmapio/archmap/domain/relation"
)

// EntityDTO is the JSON shape of an entity.
type EntityDTO struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"`
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	Classification string    `json:"classification,omitempty"`
	Owner          string    `json:"owner,omitempty"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JunctionDTO is the JSON shape of a junction record.
type JunctionDTO struct {
	ID           int64      `json:"id"`
	Type         string     `json:"type"`
	FromType     string     `json:"from_type"`
	FromKey      string     `json:"from_key"`
	FromID       *int64     `json:"from_id,omitempty"`
	ToType       string     `json:"to_type"`
	ToKey        string     `json:"to_key"`
	ToID         *int64     `json:"to_id,omitempty"`
	RelationType string     `json:"relation_type,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	EffectiveAt  *time.Time `json:"effective_date,omitempty"`
	Criticality  string     `json:"criticality,omitempty"`
	State        string     `json:"state"`
}

// RelatedDTO pairs a related entity with its linking junction.
type RelatedDTO struct {
	Entity    EntityDTO   `json:"entity"`
	Junction  JunctionDTO `json:"junction"`
	Direction string      `json:"direction"`
}

// UnresolvedDTO is one dangling junction reference.
type UnresolvedDTO struct {
	JunctionID int64  `json:"junction_id"`
	Side       string `json:"side"`
	Collection string `json:"collection"`
	Key        string `json:"key"`
}

// TreeNodeDTO is one node of a hierarchy tree.
type TreeNodeDTO struct {
	Entity   EntityDTO     `json:"entity"`
	Children []TreeNodeDTO `json:"children,omitempty"`
}

// RunDTO is the JSON shape of a pipeline run record.
type RunDTO struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Collection string     `json:"collection,omitempty"`
	Created    int        `json:"created"`
	Updated    int        `json:"updated"`
	Failed     int        `json:"failed"`
	Warnings   int        `json:"warnings"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func entityToDTO(e catalog.Entity) EntityDTO {
	return EntityDTO{
		ID:             e.ID().Int64(),
		Type:           e.Type().String(),
		Key:            e.Key().String(),
		Name:           e.Name(),
		Classification: e.Classification(),
		Owner:          e.Owner(),
		Description:    e.Description(),
		Status:         string(e.Status()),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}

func entitiesToDTO(entities []catalog.Entity) []EntityDTO {
	out := make([]EntityDTO, len(entities))
	for i, e := range entities {
		out[i] = entityToDTO(e)
	}
	return out
}

func junctionToDTO(j relation.Junction) JunctionDTO {
	dto := JunctionDTO{
		ID:           j.ID().Int64(),
		Type:         j.Type().String(),
		FromType:     j.FromType().String(),
		FromKey:      j.FromKey().String(),
		ToType:       j.ToType().String(),
		ToKey:        j.ToKey().String(),
		RelationType: j.Relation().String(),
		Notes:        j.Notes(),
		Criticality:  j.Criticality(),
		State:        j.State().String(),
	}
	if !j.FromID().IsZero() {
		id := j.FromID().Int64()
		dto.FromID = &id
	}
	if !j.ToID().IsZero() {
		id := j.ToID().Int64()
		dto.ToID = &id
	}
	if !j.EffectiveDate().IsZero() {
		t := j.EffectiveDate()
		dto.EffectiveAt = &t
	}
	return dto
}

func relatedToDTO(related []service.RelatedEntity) []RelatedDTO {
	out := make([]RelatedDTO, len(related))
	for i, r := range related {
		out[i] = RelatedDTO{
			Entity:    entityToDTO(r.Entity),
			Junction:  junctionToDTO(r.Junction),
			Direction: string(r.Direction),
		}
	}
	return out
}

func unresolvedToDTO(refs []service.UnresolvedReference) []UnresolvedDTO {
	out := make([]UnresolvedDTO, len(refs))
	for i, ref := range refs {
		out[i] = UnresolvedDTO{
			JunctionID: ref.JunctionID.Int64(),
			Side:       string(ref.Side),
			Collection: ref.Collection.String(),
			Key:        ref.Key.String(),
		}
	}
	return out
}

func treeToDTO(nodes []service.TreeNode) []TreeNodeDTO {
	out := make([]TreeNodeDTO, len(nodes))
	for i, n := range nodes {
		out[i] = TreeNodeDTO{
			Entity:   entityToDTO(n.Entity),
			Children: treeToDTO(n.Children),
		}
	}
	return out
}

func runToDTO(r importing.Run) RunDTO {
	dto := RunDTO{
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
		dto.FinishedAt = &t
	}
	return dto
}
