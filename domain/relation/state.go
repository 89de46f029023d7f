package relation

// ResolutionState is the lifecycle state of a junction row. Transitions out
// of StateCreated happen only through resolver runs; there is no delete
// transition — cascade cleanup is a manual operator action.
type ResolutionState string

// ResolutionState values.
const (
	// StateCreated is the post-import state: business keys present, resolved
	// IDs null.
	StateCreated ResolutionState = "created"

	// StateResolved means both business keys matched exactly one entity row
	// at the last resolver run.
	StateResolved ResolutionState = "resolved"

	// StatePartiallyUnresolved means at least one business key had no match
	// at the last resolver run. The row is flagged, never dropped.
	StatePartiallyUnresolved ResolutionState = "partially_unresolved"
)

// IsResolved reports whether the state is StateResolved.
func (s ResolutionState) IsResolved() bool { return s == StateResolved }

// String returns the state as a plain string.
func (s ResolutionState) String() string { return string(s) }
