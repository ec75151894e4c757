package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmeyer/daypeak/config"
	"github.com/hmeyer/daypeak/internal/api"
	"github.com/hmeyer/daypeak/internal/bus"
	"github.com/hmeyer/daypeak/internal/domain/models"
	"github.com/hmeyer/daypeak/internal/logger"
	"github.com/hmeyer/daypeak/internal/metrics"
	"github.com/hmeyer/daypeak/internal/scheduler"
	"github.com/hmeyer/daypeak/internal/storage"
	"github.com/hmeyer/daypeak/internal/tracker"
)

// eventQueueSize is the capacity of the state-change queue between the HTTP
// ingress and the tracker callback.
const eventQueueSize = 256

// App bundles the initialized components the main loop runs.
//
// Fields:
//   - Router: the configured Gin HTTP router.
//   - Bus: the state-change event bus; Run it to start dispatching.
//   - Scheduler: the daily reset trigger; Run it alongside the bus.
type App struct {
	Router    *gin.Engine
	Bus       *bus.Bus
	Scheduler *scheduler.Daily
	Saver     *SnapshotSaver
}

// InitializeApp sets up all application dependencies and returns the
// assembled App, a cleanup function for graceful shutdown, and any error
// encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres() and ensures the schema.
//   - Builds the tracker from configuration and restores the last persisted
//     snapshot before any live notification can be dispatched.
//   - Installs the snapshot observer so every observable change is persisted.
//   - Subscribes the tracker to the event bus for its configured entity ids.
//   - Arms the daily reset trigger.
//   - Configures the Gin router and health/readiness probes.
func InitializeApp() (*App, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewSnapshotRepository(db)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.InitSchema(initCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	trk, err := tracker.New(tracker.Options{
		Kind:            cfg.Tracker.Kind,
		Name:            cfg.Tracker.Name,
		EntityIDs:       cfg.Tracker.EntityIDs,
		RoundDigits:     cfg.Tracker.RoundDigits,
		ManualResetOnly: cfg.Tracker.ManualResetOnly,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to build tracker: %w", err)
	}

	// Restore the persisted baseline before the bus starts delivering.
	// A failed load is not fatal: the tracker simply starts fresh.
	snap, err := repo.Load(initCtx, trk.Name())
	switch {
	case err != nil:
		logger.L().Warn().Err(err).Msg("snapshot restore failed, starting fresh")
	case snap != nil:
		trk.Restore(*snap)
		logger.L().Info().Str("tracker", trk.Name()).Msg("snapshot restored")
	}

	// Persist every observable change through a single save worker so the
	// stored row never regresses to an older snapshot.
	saver := NewSnapshotSaver(repo, trk.Name())
	trk.SetObserver(saver.Enqueue)

	eventBus := bus.New(eventQueueSize)
	eventBus.Subscribe(cfg.Tracker.EntityIDs, func(ev models.StateChangeEvent) {
		switch trk.HandleStateChange(ev.EntityID, ev.State, ev.Unit) {
		case tracker.Updated:
			metrics.ReadingsTotal.Inc()
		case tracker.SentinelStored:
			metrics.SentinelReadingsTotal.Inc()
		case tracker.Rejected:
			metrics.ReadingsRejectedTotal.Inc()
		}
	})

	daily, err := scheduler.NewDaily(cfg.Tracker.ResetTime, func(time.Time) {
		if trk.ScheduledReset() {
			metrics.ResetsTotal.WithLabelValues("scheduled").Inc()
		}
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to build reset scheduler: %w", err)
	}

	handler := api.NewHandler(trk, eventBus)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return &App{Router: router, Bus: eventBus, Scheduler: daily, Saver: saver}, cleanup, nil
}
