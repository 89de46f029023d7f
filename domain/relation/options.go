package relation

import "github.com/archmapio/archmap/domain/catalog"

// WithJunctionType filters by the "junction_type" column.
func WithJunctionType(t JunctionType) Option {
	return catalog.WithCondition("junction_type", t.String())
}

// WithFromType filters by the "from_type" column.
func WithFromType(t catalog.EntityType) Option {
	return catalog.WithCondition("from_type", t.String())
}

// WithToType filters by the "to_type" column.
func WithToType(t catalog.EntityType) Option {
	return catalog.WithCondition("to_type", t.String())
}

// WithStateIn filters by a set of resolution states.
func WithStateIn(states ...ResolutionState) Option {
	values := make([]string, len(states))
	for i, s := range states {
		values[i] = s.String()
	}
	return catalog.WithConditionIn("state", values)
}

// WithFromKey filters by the "from_key" column.
func WithFromKey(key catalog.BusinessKey) Option {
	return catalog.WithCondition("from_key", key.String())
}

// WithToKey filters by the "to_key" column.
func WithToKey(key catalog.BusinessKey) Option {
	return catalog.WithCondition("to_key", key.String())
}

// WithRelation filters by the "relation_type" column.
func WithRelation(t RelationType) Option {
	return catalog.WithCondition("relation_type", t.String())
}

// WithState filters by the "state" column.
func WithState(s ResolutionState) Option {
	return catalog.WithCondition("state", s.String())
}
