package app

import (
	"context"
	"time"

	"github.com/hmeyer/daypeak/internal/domain/models"
	"github.com/hmeyer/daypeak/internal/logger"
	"github.com/hmeyer/daypeak/internal/metrics"
	"github.com/hmeyer/daypeak/internal/storage"
)

// saveTimeout bounds a single snapshot upsert.
const saveTimeout = 5 * time.Second

// SnapshotSaver persists tracker snapshots through a single worker goroutine,
// so upserts always execute in the order the snapshots were produced and the
// persisted row never regresses to an older state.
//
// The pending slot holds at most one snapshot. Enqueueing while one is still
// pending replaces it: intermediate states are skipped, only the newest one
// reaches the store.
type SnapshotSaver struct {
	repo    storage.SnapshotRepository
	name    string
	pending chan models.Snapshot
}

// NewSnapshotSaver constructs a saver for the named tracker.
func NewSnapshotSaver(repo storage.SnapshotRepository, name string) *SnapshotSaver {
	return &SnapshotSaver{
		repo:    repo,
		name:    name,
		pending: make(chan models.Snapshot, 1),
	}
}

// Enqueue hands a snapshot to the save worker without blocking. A snapshot
// already waiting is discarded in favor of the newer one. Safe to call from
// the tracker's observer callback.
func (s *SnapshotSaver) Enqueue(snap models.Snapshot) {
	for {
		select {
		case s.pending <- snap:
			return
		default:
			// Drop the stale pending snapshot and retry.
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

// Run drains the pending slot until the context is cancelled. On shutdown a
// snapshot still waiting gets one final best-effort save.
func (s *SnapshotSaver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			select {
			case snap := <-s.pending:
				s.save(snap)
			default:
			}
			return nil
		case snap := <-s.pending:
			s.save(snap)
		}
	}
}

func (s *SnapshotSaver) save(snap models.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.repo.Save(ctx, s.name, snap); err != nil {
		metrics.SnapshotSaveFailuresTotal.Inc()
		logger.L().Warn().Err(err).Str("tracker", s.name).Msg("snapshot save failed")
		return
	}
	metrics.SnapshotSavesTotal.Inc()
}
