package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	removeTimeout  = 10 * time.Second
)

// Janitor removes cover files that no post references any more. Removal is
// asynchronous so request handlers never wait on storage cleanup.
type Janitor struct {
	jobs    chan string
	storage ports.CoverStorage
	workers int
	log     zerolog.Logger
}

// NewJanitor creates a Janitor with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewJanitor(numWorkers int, storage ports.CoverStorage, log zerolog.Logger) *Janitor {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Janitor{
		jobs:    make(chan string, channelBuffer),
		storage: storage,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled;
// removals still queued at that point are abandoned.
func (j *Janitor) Start(ctx context.Context) {
	for i := 0; i < j.workers; i++ {
		go j.runWorker(ctx, i)
	}
}

// Enqueue schedules coverPath for removal. It never blocks: when the queue is
// full the removal is dropped and the file stays on disk.
func (j *Janitor) Enqueue(coverPath string) {
	name, ok := domain.CoverObjectName(coverPath)
	if !ok {
		j.log.Warn().Str("cover", coverPath).Msg("refusing to remove unrecognised cover path")
		return
	}

	select {
	case j.jobs <- name:
		metrics.CoverRemovalQueueDepth.Inc()
	default:
		metrics.CoverRemovalsTotal.WithLabelValues("dropped").Inc()
		j.log.Warn().Str("cover", name).Msg("cover removal queue full, dropping")
	}
}

func (j *Janitor) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case name := <-j.jobs:
			metrics.CoverRemovalQueueDepth.Dec()
			j.remove(ctx, id, name)
		}
	}
}

func (j *Janitor) remove(ctx context.Context, id int, name string) {
	ctx, cancel := context.WithTimeout(ctx, removeTimeout)
	defer cancel()

	if err := j.storage.Remove(ctx, name); err != nil {
		metrics.CoverRemovalsTotal.WithLabelValues("failed").Inc()
		j.log.Error().Err(err).
			Str("cover", name).
			Int("worker_id", id).
			Msg("cover removal failed")
		return
	}
	metrics.CoverRemovalsTotal.WithLabelValues("removed").Inc()
	j.log.Debug().Str("cover", name).Int("worker_id", id).Msg("cover removed")
}
