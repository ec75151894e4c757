package models

// Sentinel states a notification source may deliver instead of a numeric
// payload. Both collapse to the same "no current reading" marker internally.
const (
	StateUnknown     = "unknown"
	StateUnavailable = "unavailable"
)

// TrackerKind selects which extremum a tracker reports as its primary value.
type TrackerKind string

const (
	KindMin TrackerKind = "min"
	KindMax TrackerKind = "max"
)

// Valid reports whether k is one of the supported tracker kinds.
func (k TrackerKind) Valid() bool {
	return k == KindMin || k == KindMax
}

// Reading is the last known state of a single tracked entity.
//
// Fields:
//   - Value: the rounded numeric reading. Meaningless when Unknown is set.
//   - Unknown: true when the entity last reported a sentinel state
//     (unknown/unavailable). Unknown readings occupy their slot but are
//     excluded from extremum computation.
type Reading struct {
	Value   float64
	Unknown bool
}

// StateChangeEvent is one value-change notification for a tracked entity.
//
// Fields:
//   - EntityID: identifier of the entity that changed.
//   - State: raw payload, a numeric string or one of the sentinel states.
//   - Unit: optional unit-of-measurement annotation accompanying the payload.
type StateChangeEvent struct {
	EntityID string `json:"entity_id"`
	State    string `json:"state"`
	Unit     string `json:"unit,omitempty"`
}
