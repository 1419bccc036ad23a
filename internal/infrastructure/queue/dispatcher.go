package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// UpsertFunc persists one directory entry.
type UpsertFunc func(ctx context.Context, entry domain.Identity) error

// Dispatcher fans directory entries out to a fixed set of workers during a
// sync run, sharding by username so writes for the same entry never race.
// A Dispatcher serves exactly one run: Start, Enqueue entries, then Wait.
type Dispatcher struct {
	workers  []chan domain.Identity
	upsert   UpsertFunc
	log      zerolog.Logger
	wg       sync.WaitGroup
	upserted atomic.Int64
	failed   atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, upsert UpsertFunc, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Identity, numWorkers),
		upsert:  upsert,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Identity, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. Workers drain their channel until it
// is closed or ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue routes an entry to the worker responsible for its username.
// Blocks when that worker's buffer is full.
func (d *Dispatcher) Enqueue(entry domain.Identity) {
	d.workers[d.shardIndex(entry.Username)] <- entry
}

// Wait closes all worker channels, waits for the backlog to drain, and
// returns the number of successful and failed upserts.
func (d *Dispatcher) Wait() (upserted, failed int64) {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
	return d.upserted.Load(), d.failed.Load()
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Identity) {
	defer d.wg.Done()
	for entry := range ch {
		if err := d.upsert(ctx, entry); err != nil {
			d.failed.Add(1)
			d.log.Error().Err(err).
				Str("username", entry.Username).
				Int("worker_id", id).
				Msg("snapshot upsert failed")
			continue
		}
		d.upserted.Add(1)
	}
}
