package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hmeyer/daypeak/internal/domain/models"
)

// SnapshotRepository persists and restores tracker attribute snapshots.
//
// There is exactly one row per tracker name holding the current snapshot;
// this is not a history store.
type SnapshotRepository interface {
	InitSchema(ctx context.Context) error
	Save(ctx context.Context, trackerName string, snap models.Snapshot) error
	Load(ctx context.Context, trackerName string) (*models.Snapshot, error)
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// InitSchema creates the snapshot table when it does not exist yet.
// Attribute values are stored as text: a restore parses them per-field and
// tolerates anything malformed, so the schema stays permissive on purpose.
func (r *snapshotRepository) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tracker_snapshots (
			tracker_name   TEXT PRIMARY KEY,
			min_value      TEXT,
			min_entity_id  TEXT,
			max_value      TEXT,
			max_entity_id  TEXT,
			last           TEXT,
			last_entity_id TEXT,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create tracker_snapshots: %w", err)
	}
	return nil
}

// Save upserts the snapshot row for the given tracker.
func (r *snapshotRepository) Save(ctx context.Context, trackerName string, snap models.Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracker_snapshots
			(tracker_name, min_value, min_entity_id, max_value, max_entity_id, last, last_entity_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tracker_name)
		DO UPDATE SET min_value      = EXCLUDED.min_value,
					  min_entity_id  = EXCLUDED.min_entity_id,
					  max_value      = EXCLUDED.max_value,
					  max_entity_id  = EXCLUDED.max_entity_id,
					  last           = EXCLUDED.last,
					  last_entity_id = EXCLUDED.last_entity_id,
					  updated_at     = NOW()
	`, trackerName,
		nullIfEmpty(snap.MinValue), nullIfEmpty(snap.MinEntityID),
		nullIfEmpty(snap.MaxValue), nullIfEmpty(snap.MaxEntityID),
		nullIfEmpty(snap.Last), nullIfEmpty(snap.LastEntityID),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot for %q: %w", trackerName, err)
	}
	return nil
}

// Load returns the persisted snapshot for the tracker, or nil when none has
// ever been saved.
func (r *snapshotRepository) Load(ctx context.Context, trackerName string) (*models.Snapshot, error) {
	var (
		minValue, minEntityID sql.NullString
		maxValue, maxEntityID sql.NullString
		last, lastEntityID    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT min_value, min_entity_id, max_value, max_entity_id, last, last_entity_id
		FROM tracker_snapshots
		WHERE tracker_name = $1
	`, trackerName).Scan(&minValue, &minEntityID, &maxValue, &maxEntityID, &last, &lastEntityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %q: %w", trackerName, err)
	}

	return &models.Snapshot{
		MinValue:     minValue.String,
		MinEntityID:  minEntityID.String,
		MaxValue:     maxValue.String,
		MaxEntityID:  maxEntityID.String,
		Last:         last.String,
		LastEntityID: lastEntityID.String,
	}, nil
}

// nullIfEmpty maps absent attributes to NULL so a restored snapshot knows
// the difference between "unset" and an empty value.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
