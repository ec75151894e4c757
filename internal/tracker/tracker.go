package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hmeyer/daypeak/internal/domain/models"
	"github.com/hmeyer/daypeak/internal/logger"
)

// Attribute names exposed by Attributes() and carried in snapshots.
const (
	AttrCountSensors = "count_sensors"
	AttrMaxValue     = "max_value"
	AttrMaxEntityID  = "max_entity_id"
	AttrMinValue     = "min_value"
	AttrMinEntityID  = "min_entity_id"
	AttrLast         = "last"
	AttrLastEntityID = "last_entity_id"
)

// UpdateResult classifies the outcome of a single state-change notification.
type UpdateResult int

const (
	// Updated means a numeric reading was stored and aggregates recomputed.
	Updated UpdateResult = iota
	// SentinelStored means a sentinel state was recorded for the entity and
	// aggregates recomputed without it.
	SentinelStored
	// Rejected means the payload was not numeric; prior state was retained.
	Rejected
	// UnitMismatch means the reading carried a different unit annotation than
	// previously observed; the tracker is now permanently unavailable.
	UnitMismatch
	// Untracked means the entity id is not part of this tracker's
	// configuration and the notification was dropped.
	Untracked
)

// Observer is invoked after every observable state change with the snapshot
// taken at that point. It runs synchronously inside the notification callback
// and must not call back into the Tracker.
type Observer func(models.Snapshot)

// Options configures a Tracker at construction.
//
// Fields:
//   - Kind: which extremum is the primary reported value ("min" or "max").
//   - Name: optional display name; defaults to "<Kind> sensor".
//   - EntityIDs: ordered, unique, non-empty list of tracked entity ids.
//   - RoundDigits: precision applied to every ingested reading.
//   - ManualResetOnly: when true, scheduled resets are no-ops.
type Options struct {
	Kind            models.TrackerKind
	Name            string
	EntityIDs       []string
	RoundDigits     int
	ManualResetOnly bool
}

// Tracker maintains, for a fixed set of tracked entities, the running
// minimum and maximum since the last reset plus the most recent reading.
//
// All mutation happens inside notification, scheduler, or action callbacks.
// Those callbacks are already delivered one at a time, but a mutex guards
// the state anyway so that HTTP reads can happen concurrently with them.
type Tracker struct {
	mu sync.Mutex

	kind            models.TrackerKind
	name            string
	entityIDs       []string
	tracked         map[string]struct{}
	roundDigits     int
	manualResetOnly bool

	unit         string
	unitSeen     bool
	unitMismatch bool

	// states holds the last known reading per entity. Entries appear lazily
	// on first report and are overwritten in place; the map never shrinks.
	states map[string]models.Reading

	minValue     *float64
	maxValue     *float64
	last         *float64
	minEntityID  string
	maxEntityID  string
	lastEntityID string

	observer Observer
}

// New constructs a Tracker from the given options.
//
// Returns an error when the kind is unsupported, the entity id list is empty
// or contains duplicates, or the rounding precision is negative. These are
// configuration mistakes and are expected to be caught before the tracker
// ever sees a live notification.
func New(opts Options) (*Tracker, error) {
	if !opts.Kind.Valid() {
		return nil, fmt.Errorf("unsupported tracker kind %q", opts.Kind)
	}
	if len(opts.EntityIDs) == 0 {
		return nil, fmt.Errorf("at least one entity id is required")
	}
	if opts.RoundDigits < 0 {
		return nil, fmt.Errorf("round digits must be >= 0, got %d", opts.RoundDigits)
	}

	tracked := make(map[string]struct{}, len(opts.EntityIDs))
	for _, id := range opts.EntityIDs {
		if _, dup := tracked[id]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", id)
		}
		tracked[id] = struct{}{}
	}

	name := opts.Name
	if name == "" {
		name = defaultName(opts.Kind)
	}

	return &Tracker{
		kind:            opts.Kind,
		name:            name,
		entityIDs:       append([]string(nil), opts.EntityIDs...),
		tracked:         tracked,
		roundDigits:     opts.RoundDigits,
		manualResetOnly: opts.ManualResetOnly,
		states:          make(map[string]models.Reading, len(opts.EntityIDs)),
	}, nil
}

// defaultName derives the display name from the kind, e.g. "Max sensor".
func defaultName(kind models.TrackerKind) string {
	k := string(kind)
	return strings.ToUpper(k[:1]) + k[1:] + " sensor"
}

// SetObserver installs the change observer. Call before the tracker starts
// receiving notifications.
func (t *Tracker) SetObserver(obs Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = obs
}

// Name returns the display name.
func (t *Tracker) Name() string { return t.name }

// Kind returns the configured extremum kind.
func (t *Tracker) Kind() models.TrackerKind { return t.kind }

// CountSensors returns the number of tracked entities.
func (t *Tracker) CountSensors() int { return len(t.entityIDs) }

// Tracks reports whether the given entity id is part of the configuration.
func (t *Tracker) Tracks(entityID string) bool {
	_, ok := t.tracked[entityID]
	return ok
}

// Unit returns the unit-of-measurement captured from the first reading, or
// an empty string when no reading carried one yet.
func (t *Tracker) Unit() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unit
}

// HandleStateChange processes one value-change notification.
//
// Behavior:
//   - Sentinel or empty states are recorded as unknown for the entity,
//     aggregates are recomputed without them, and the observer is notified.
//   - The first non-sentinel reading fixes the tracker's unit annotation.
//     Any later reading with a different annotation latches the tracker into
//     permanent unavailability and is not processed further.
//   - Numeric payloads are rounded, stored as the entity's last value and as
//     the tracker-wide last reading, and merged into the running extrema.
//   - Non-numeric payloads are logged and ignored; prior state is retained.
func (t *Tracker) HandleStateChange(entityID, state, unit string) UpdateResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Tracks(entityID) {
		logger.L().Debug().Str("entity_id", entityID).Msg("ignoring untracked entity")
		return Untracked
	}

	if state == "" || state == models.StateUnknown || state == models.StateUnavailable {
		t.states[entityID] = models.Reading{Unknown: true}
		t.calcValues()
		t.notify()
		return SentinelStored
	}

	if !t.unitSeen {
		t.unit = unit
		t.unitSeen = true
	}
	if t.unit != unit {
		logger.L().Warn().
			Str("entity_id", entityID).
			Str("unit", unit).
			Str("expected", t.unit).
			Msg("unit of measurement mismatch")
		t.unitMismatch = true
		return UnitMismatch
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(state), 64)
	if err != nil {
		logger.L().Warn().
			Str("entity_id", entityID).
			Str("state", state).
			Msg("unable to parse state as number")
		return Rejected
	}

	val = roundTo(val, t.roundDigits)
	t.states[entityID] = models.Reading{Value: val}
	v := val
	t.last = &v
	t.lastEntityID = entityID

	t.calcValues()
	t.notify()
	return Updated
}

// calcValues recomputes the min/max candidates from all currently known
// readings and merges them into the running extrema.
//
// The scan walks entity ids in configuration order with strict inequality,
// so on ties the earliest entity wins. The merge also uses strict
// inequality: a reading equal to the running extremum never replaces the
// recorded holder. This two-stage shape is deliberate; collapsing it into a
// single per-reading comparison changes tie-break and sentinel behavior.
func (t *Tracker) calcValues() {
	var (
		minID, maxID     string
		minVal, maxVal   float64
		haveMin, haveMax bool
	)
	for _, id := range t.entityIDs {
		r, known := t.states[id]
		if !known || r.Unknown {
			continue
		}
		if !haveMin || r.Value < minVal {
			minID, minVal, haveMin = id, r.Value, true
		}
		if !haveMax || r.Value > maxVal {
			maxID, maxVal, haveMax = id, r.Value, true
		}
	}

	if haveMin && (t.minValue == nil || minVal < *t.minValue) {
		v := minVal
		t.minValue = &v
		t.minEntityID = minID
	}
	if haveMax && (t.maxValue == nil || maxVal > *t.maxValue) {
		v := maxVal
		t.maxValue = &v
		t.maxEntityID = maxID
	}
}

// Reset restarts the extremum window unconditionally. This backs the manual
// reset action.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	logger.L().Debug().Str("tracker", t.name).Msg("manual reset")
	t.reset()
}

// ScheduledReset restarts the extremum window unless the tracker is
// configured for manual resets only, in which case it is a no-op. The return
// value reports whether the reset actually ran.
func (t *Tracker) ScheduledReset() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.manualResetOnly {
		logger.L().Debug().Str("tracker", t.name).Msg("scheduled reset skipped (manual only)")
		return false
	}
	t.reset()
	return true
}

// reset sets both extrema to the last observed reading (possibly nil when
// nothing has ever been observed) and clears the extremum holders. The
// window restarts from the latest known reading, not from nothing.
func (t *Tracker) reset() {
	if t.last != nil {
		mn, mx := *t.last, *t.last
		t.minValue, t.maxValue = &mn, &mx
	} else {
		t.minValue, t.maxValue = nil, nil
	}
	t.minEntityID, t.maxEntityID, t.lastEntityID = "", "", ""
	t.notify()
}

// PrimaryValue returns the tracker's primary reading per its kind.
//
// Returns:
//   - value: the current min or max, nil when none recorded yet.
//   - available: false once a unit mismatch has been detected; the mismatch
//     never clears without a restart.
func (t *Tracker) PrimaryValue() (value *float64, available bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.primaryValue()
}

func (t *Tracker) primaryValue() (*float64, bool) {
	if t.unitMismatch {
		return nil, false
	}
	if t.kind == models.KindMin {
		return copyFloat(t.minValue), true
	}
	return copyFloat(t.maxValue), true
}

// State is a point-in-time view of the tracker. All fields are read under a
// single lock acquisition, so the primary value and the attribute set always
// describe the same instant.
type State struct {
	Name       string
	Kind       models.TrackerKind
	Unit       string
	Value      *float64
	Available  bool
	Attributes map[string]any
}

// State returns a consistent view of the tracker for exposure.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, available := t.primaryValue()
	return State{
		Name:       t.name,
		Kind:       t.kind,
		Unit:       t.unit,
		Value:      value,
		Available:  available,
		Attributes: t.attributes(),
	}
}

// Attributes returns the exposed attribute set: the tracked entity count and
// every extremum/last field that currently has a value. Absent attributes
// are omitted rather than emitted as null.
func (t *Tracker) Attributes() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attributes()
}

func (t *Tracker) attributes() map[string]any {
	attrs := map[string]any{
		AttrCountSensors: len(t.entityIDs),
	}
	if t.maxValue != nil {
		attrs[AttrMaxValue] = *t.maxValue
	}
	if t.maxEntityID != "" {
		attrs[AttrMaxEntityID] = t.maxEntityID
	}
	if t.minValue != nil {
		attrs[AttrMinValue] = *t.minValue
	}
	if t.minEntityID != "" {
		attrs[AttrMinEntityID] = t.minEntityID
	}
	if t.last != nil {
		attrs[AttrLast] = *t.last
	}
	if t.lastEntityID != "" {
		attrs[AttrLastEntityID] = t.lastEntityID
	}
	return attrs
}

// Snapshot returns the persistable attribute snapshot.
func (t *Tracker) Snapshot() models.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() models.Snapshot {
	return models.Snapshot{
		MinValue:     formatFloat(t.minValue),
		MinEntityID:  t.minEntityID,
		MaxValue:     formatFloat(t.maxValue),
		MaxEntityID:  t.maxEntityID,
		Last:         formatFloat(t.last),
		LastEntityID: t.lastEntityID,
	}
}

// Restore populates the extrema and last reading from a persisted snapshot.
//
// Each numeric field is parsed independently; fields that are absent or fail
// to parse are left unset. Entity-id fields are taken verbatim, even when
// the paired value could not be parsed. A recomputation pass runs afterwards
// so the tracker reflects the persisted baseline until live readings arrive.
func (t *Tracker) Restore(snap models.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, err := strconv.ParseFloat(snap.MinValue, 64); err == nil {
		t.minValue = &v
	}
	if v, err := strconv.ParseFloat(snap.MaxValue, 64); err == nil {
		t.maxValue = &v
	}
	if v, err := strconv.ParseFloat(snap.Last, 64); err == nil {
		t.last = &v
	}
	t.minEntityID = snap.MinEntityID
	t.maxEntityID = snap.MaxEntityID
	t.lastEntityID = snap.LastEntityID

	t.calcValues()
}

// notify invokes the observer with the current snapshot. Caller holds the lock.
func (t *Tracker) notify() {
	if t.observer != nil {
		t.observer(t.snapshot())
	}
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
