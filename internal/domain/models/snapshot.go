package models

// Snapshot is the persisted attribute set of a tracker, written on every
// observed change and read back once at startup.
//
// All fields carry the string form of the attribute. An empty string means
// the attribute was absent when the snapshot was taken. Values are stored as
// text so that a restore can tolerate malformed numeric fields per-field
// instead of rejecting the whole snapshot.
type Snapshot struct {
	MinValue     string
	MinEntityID  string
	MaxValue     string
	MaxEntityID  string
	Last         string
	LastEntityID string
}

// Empty reports whether the snapshot carries no attributes at all.
func (s Snapshot) Empty() bool {
	return s == Snapshot{}
}
