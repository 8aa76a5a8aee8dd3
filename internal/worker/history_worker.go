package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/store"
)

const (
	HistoryBatchSize    = 16
	HistoryBatchTimeout = 2 * time.Second
)

// HistoryWorker drains submitted results from its queue and writes them to
// the history store in batches, so a burst of submissions costs one
// transaction instead of one per attempt.
type HistoryWorker struct {
	store *store.Store
	queue <-chan store.Attempt
	log   zerolog.Logger
}

func NewHistoryWorker(st *store.Store, queue <-chan store.Attempt, log zerolog.Logger) *HistoryWorker {
	return &HistoryWorker{
		store: st,
		queue: queue,
		log:   log.With().Str("component", "history_worker").Logger(),
	}
}

// Start runs the worker loop until the context is cancelled, flushing any
// buffered batch before returning.
func (w *HistoryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("HistoryWorker started")

	batch := make([]store.Attempt, 0, HistoryBatchSize)
	flush := time.NewTicker(HistoryBatchTimeout)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		case attempt := <-w.queue:
			batch = append(batch, attempt)
			if len(batch) >= HistoryBatchSize {
				w.flushSafe(ctx, batch)
				batch = batch[:0]
			}

		case <-flush.C:
			if len(batch) > 0 {
				w.flushSafe(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *HistoryWorker) flushSafe(ctx context.Context, batch []store.Attempt) {
	if len(batch) == 0 {
		return
	}

	if err := w.store.InsertAttempts(ctx, batch); err != nil {
		w.log.Error().Err(err).Int("count", len(batch)).Msg("History flush failed")
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("History batch persisted")
}
