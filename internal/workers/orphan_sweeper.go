package workers

import (
	"context"
	"time"

	"aic_backend/internal/logger"
	"aic_backend/internal/repositories"
	"aic_backend/internal/storage"

	"gorm.io/gorm"
)

const (
	sweepInterval = time.Hour
	// Objects younger than this are skipped: they may belong to an
	// upload whose metadata row has not committed yet.
	sweepGracePeriod = 15 * time.Minute
)

// OrphanSweeper removes stored objects that no document row references.
// Orphans appear when a storage delete fails after its row was removed,
// or when the process dies between a storage write and the row commit.
type OrphanSweeper struct {
	db           *gorm.DB
	store        storage.Storage
	documentRepo repositories.DocumentRepository
	interval     time.Duration
	started      time.Time
}

func NewOrphanSweeper(db *gorm.DB, store storage.Storage, documentRepo repositories.DocumentRepository) *OrphanSweeper {
	return &OrphanSweeper{
		db:           db,
		store:        store,
		documentRepo: documentRepo,
		interval:     sweepInterval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *OrphanSweeper) Run(ctx context.Context) {
	s.started = time.Now()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("Orphan sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Orphan sweeper stopped")
			return
		case <-ticker.C:
			if removed, err := s.Sweep(ctx); err != nil {
				logger.Error("Orphan sweep failed", "error", err)
			} else if removed > 0 {
				logger.Info("Orphan sweep finished", "removed", removed)
			}
		}
	}
}

// Sweep diffs the object store against the document rows and deletes
// unreferenced objects. Returns the number of objects removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	// Anything stored before the process had run for a grace period is
	// safe to judge; fresh objects get the benefit of the doubt.
	if time.Since(s.started) < sweepGracePeriod {
		return 0, nil
	}

	known, err := s.documentRepo.AllPaths(s.db)
	if err != nil {
		return 0, err
	}
	knownSet := make(map[string]bool, len(known))
	for _, p := range known {
		knownSet[p] = true
	}

	stored, err := s.store.List(ctx, "")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range stored {
		if knownSet[path] {
			continue
		}
		if err := s.store.Delete(ctx, path); err != nil {
			logger.Warn("Failed to remove orphan object", "path", path, "error", err)
			continue
		}
		logger.Info("Removed orphan object", "path", path)
		removed++
	}
	return removed, nil
}
