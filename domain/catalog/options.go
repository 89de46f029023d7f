package catalog

// WithEntityType filters by the "entity_type" column.
func WithEntityType(t EntityType) Option {
	return WithCondition("entity_type", t.String())
}

// WithBusinessKey filters by the "business_key" column.
func WithBusinessKey(key BusinessKey) Option {
	return WithCondition("business_key", key.String())
}

// WithBusinessKeyIn filters by the "business_key" column using IN.
func WithBusinessKeyIn(keys []BusinessKey) Option {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = k.String()
	}
	return WithConditionIn("business_key", values)
}

// WithStatus filters by the "status" column.
func WithStatus(s Status) Option {
	return WithCondition("status", string(s))
}
