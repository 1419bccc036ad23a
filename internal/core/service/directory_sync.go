package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/api/metrics"
	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
	"github.com/feas-hq/allocation-system/internal/infrastructure/queue"
)

// DirectorySyncService refreshes the directory snapshot by walking the user
// subtree with the service credential and upserting every entry. Upserts run
// on a sharded worker pool bounded to the lifetime of the sync call; nothing
// keeps running in the background afterwards.
type DirectorySyncService struct {
	directory ports.DirectoryClient
	snapshot  ports.DirectoryRepository
	workers   int
	logger    zerolog.Logger
}

func NewDirectorySyncService(directory ports.DirectoryClient, snapshot ports.DirectoryRepository, workers int, logger zerolog.Logger) *DirectorySyncService {
	return &DirectorySyncService{directory: directory, snapshot: snapshot, workers: workers, logger: logger}
}

// Sync walks the directory and upserts the snapshot. Individual entry
// failures are counted, logged and skipped; only a failed walk aborts the
// run.
func (s *DirectorySyncService) Sync(ctx context.Context) (*ports.SyncResult, error) {
	start := time.Now()
	defer func() { metrics.DirectorySyncDuration.Observe(time.Since(start).Seconds()) }()

	dispatcher := queue.NewDispatcher(s.workers, s.snapshot.Upsert, s.logger)
	dispatcher.Start(ctx)

	walkErr := s.directory.Browse(ctx, func(entry domain.Identity) error {
		dispatcher.Enqueue(entry)
		return nil
	})

	upserted, failed := dispatcher.Wait()
	metrics.DirectorySyncEntriesTotal.WithLabelValues("upserted").Add(float64(upserted))
	metrics.DirectorySyncEntriesTotal.WithLabelValues("failed").Add(float64(failed))

	if walkErr != nil {
		return nil, fmt.Errorf("directory walk: %w", walkErr)
	}

	total, err := s.snapshot.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot count: %w", err)
	}

	s.logger.Info().
		Int64("upserted", upserted).
		Int64("failed", failed).
		Int64("snapshot_total", total).
		Dur("elapsed", time.Since(start)).
		Msg("directory sync completed")

	return &ports.SyncResult{
		Entries:  int(upserted),
		Failed:   int(failed),
		Snapshot: total,
	}, nil
}
