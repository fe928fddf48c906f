package worker

import (
	"context"
	"errors"
	"time"

	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// RowsSource produces the current agenda snapshot as sheet rows.
type RowsSource func(ctx context.Context) ([][]interface{}, error)

// SheetsSyncWorker pushes the agenda mirror to Google Sheets off the request
// path. Signals are coalesced: many mutations in a burst produce one sync,
// since every sync writes the full snapshot anyway.
type SheetsSyncWorker struct {
	sheets      domain.SheetsWriter
	rows        RowsSource
	retryPolicy RetryPolicy
	signals     chan struct{}
	syncTimeout time.Duration
	logger      *zerolog.Logger
}

func NewSheetsSyncWorker(sheets domain.SheetsWriter, rows RowsSource, retry RetryPolicy, logger *zerolog.Logger) *SheetsSyncWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsSyncWorker{
		sheets:      sheets,
		rows:        rows,
		retryPolicy: retry,
		signals:     make(chan struct{}, models.WorkerQueueSize),
		syncTimeout: 30 * time.Second,
		logger:      logger,
	}
}

// EnqueueSync schedules a mirror refresh. Never blocks: if a signal is
// already queued the pending sync will pick up this change too.
func (w *SheetsSyncWorker) EnqueueSync(ctx context.Context) error {
	select {
	case w.signals <- struct{}{}:
	default:
	}
	return nil
}

// Run consumes sync signals until the context is canceled.
func (w *SheetsSyncWorker) Run(ctx context.Context) {
	w.logger.Info().Msg("sheets sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sheets sync worker stopped")
			return
		case <-w.signals:
			w.drain()
			if err := w.syncWithRetry(ctx); err != nil {
				w.logger.Error().Err(err).Msg("agenda mirror sync failed after retries")
			}
		}
	}
}

// drain collapses queued signals into the sync we are about to run.
func (w *SheetsSyncWorker) drain() {
	for {
		select {
		case <-w.signals:
		default:
			return
		}
	}
}

func (w *SheetsSyncWorker) syncWithRetry(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if err := w.syncOnce(ctx); err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) {
				return err
			}
			delay := w.retryPolicy.NextDelay(attempt)
			w.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).
				Msg("agenda mirror sync attempt failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (w *SheetsSyncWorker) syncOnce(ctx context.Context) error {
	syncCtx, cancel := context.WithTimeout(ctx, w.syncTimeout)
	defer cancel()

	rows, err := w.rows(syncCtx)
	if err != nil {
		return err
	}
	if err := w.sheets.ReplaceAgendaSheet(syncCtx, rows); err != nil {
		return err
	}
	w.logger.Debug().Int("rows", len(rows)).Msg("agenda mirror updated")
	return nil
}
