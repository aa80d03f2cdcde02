// Package cleanup provides the background worker that closes idle editor sessions.
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// EvictFunc is called with the id of every evicted session.
type EvictFunc func(sessionID string)

// Worker periodically evicts editor sessions idle beyond the configured timeout.
type Worker struct {
	store   *stores.EditorSessionStore
	config  *Config
	logger  *logging.ChanneledLogger
	onEvict EvictFunc
}

// NewWorker creates a new cleanup worker with injected configuration.
func NewWorker(store *stores.EditorSessionStore, config *Config, logger *logging.ChanneledLogger, onEvict EvictFunc) *Worker {
	return &Worker{
		store:   store,
		config:  config,
		logger:  logger,
		onEvict: onEvict,
	}
}

// Start runs the cleanup loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Session cleanup worker started", "interval", w.config.CleanupInterval, "idleTimeout", w.config.IdleTimeout)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Session cleanup worker stopping")
			return
		case <-ticker.C:
			w.PerformCleanup(time.Now().UTC())
		}
	}
}

// PerformCleanup evicts idle sessions as of now and returns how many were removed.
func (w *Worker) PerformCleanup(now time.Time) int {
	start := time.Now()
	evicted := w.store.EvictIdle(w.config.IdleTimeout, now)
	for _, id := range evicted {
		if w.onEvict != nil {
			w.onEvict(id)
		}
	}

	if len(evicted) > 0 {
		w.logger.Cache().Info("Session cleanup finished", "evicted", len(evicted), "remaining", w.store.Len(), "duration", time.Since(start))
	} else {
		w.logger.Cache().Debug("Session cleanup found no idle sessions", "duration", time.Since(start))
	}
	return len(evicted)
}
