// Package media runs the worker that finalizes uploaded media files.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gurukul/internal/config"
	"gurukul/internal/metrics"
	"gurukul/internal/model"
	"gurukul/internal/pgmq"
	"gurukul/internal/storage"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// Queue is the part of pgmq the worker consumes
type Queue interface {
	ReadWithPoll(ctx context.Context, visibilitySec, timeoutSec, maxMessages int) ([]*pgmq.Message, error)
	Delete(ctx context.Context, msgID int64) error
	Archive(ctx context.Context, msgID int64) error
}

// StatusWriter records processing outcomes on media rows
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id, status string) error
	MarkReady(ctx context.Context, id string, size int64, contentType string) error
}

type Settings struct {
	PollTimeoutSec int
	PollMaxMsg     int
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		PollTimeoutSec: cfg.MediaPollTimeoutSec,
		PollMaxMsg:     cfg.MediaPollMaxMsg,
		MaxRetries:     cfg.MediaMaxRetries,
		BackoffInitial: time.Duration(cfg.MediaBackoffInitialSec) * time.Second,
		BackoffMax:     time.Duration(cfg.MediaBackoffMaxSec) * time.Second,
	}
}

// visibilitySec keeps a message hidden for longer than a full retry cycle
func (s Settings) visibilitySec() int {
	return int(s.BackoffMax.Seconds())*s.MaxRetries + 30
}

func (s Settings) backoff() retry.Backoff {
	b := retry.NewExponential(s.BackoffInitial)
	b = retry.WithCappedDuration(s.BackoffMax, b)
	// MaxRetries counts attempts; the first one is not a retry
	return retry.WithMaxRetries(uint64(s.MaxRetries-1), b)
}

type Worker struct {
	queue    Queue
	media    StatusWriter
	store    storage.ObjectStore
	settings Settings
	logger   zerolog.Logger
}

func NewWorker(queue Queue, media StatusWriter, store storage.ObjectStore, settings Settings, logger zerolog.Logger) *Worker {
	return &Worker{
		queue:    queue,
		media:    media,
		store:    store,
		settings: settings,
		logger:   logger.With().Str("orchestrator", "media").Logger(),
	}
}

// Run polls the media queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("max_retries", w.settings.MaxRetries).Msg("Starting media orchestrator")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Shutting down media orchestrator")
			return nil
		default:
		}

		msgs, err := w.queue.ReadWithPoll(ctx, w.settings.visibilitySec(), w.settings.PollTimeoutSec, w.settings.PollMaxMsg)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error().Err(err).Msg("Error reading media queue")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		for _, msg := range msgs {
			w.Process(ctx, msg)
		}
	}
}

// Process handles one queue message and acknowledges it. It returns the
// outcome recorded in metrics: ready, failed or invalid.
func (w *Worker) Process(ctx context.Context, msg *pgmq.Message) string {
	var job model.MediaJob
	if err := json.Unmarshal(msg.Data, &job); err != nil || job.MediaID == "" || job.StorageKey == "" {
		w.logger.Error().Err(err).Int64("msg_id", msg.ID).Msg("Invalid media job payload; archiving")
		w.ack(ctx, msg, true)
		return w.outcome("invalid")
	}
	log := w.logger.With().Int64("msg_id", msg.ID).Str("media_id", job.MediaID).Logger()

	// a message read more often than allowed was left behind by a crashed worker
	if msg.ReadCt > w.settings.MaxRetries {
		log.Warn().Int("read_ct", msg.ReadCt).Msg("Media job exceeded delivery limit")
		w.fail(ctx, msg, job, errors.New("delivery limit exceeded"))
		return w.outcome("failed")
	}

	attempt := 0
	err := retry.Do(ctx, w.settings.backoff(), func(ctx context.Context) error {
		attempt++
		info, err := w.store.Head(ctx, job.StorageKey)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("Stored object not readable, retrying")
			return retry.RetryableError(err)
		}
		if err := w.media.MarkReady(ctx, job.MediaID, info.Size, info.ContentType); err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("Failed to mark media ready, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// leave the message to reappear after the visibility timeout
			return ""
		}
		log.Error().Err(err).Int("attempts", attempt).Msg("Exhausted media retries; marking failed")
		w.fail(ctx, msg, job, err)
		return w.outcome("failed")
	}

	w.ack(ctx, msg, false)
	log.Info().Int("attempts", attempt).Msg("Media ready")
	return w.outcome("ready")
}

func (w *Worker) fail(ctx context.Context, msg *pgmq.Message, job model.MediaJob, cause error) {
	if err := w.media.UpdateStatus(ctx, job.MediaID, model.MediaStatusFailed); err != nil {
		w.logger.Error().Err(err).Str("media_id", job.MediaID).AnErr("cause", cause).Msg("Failed to mark media as failed")
	}
	w.ack(ctx, msg, true)
}

// ack archives failed jobs so they can be inspected and deletes the rest
func (w *Worker) ack(ctx context.Context, msg *pgmq.Message, archive bool) {
	var err error
	if archive {
		err = w.queue.Archive(ctx, msg.ID)
	} else {
		err = w.queue.Delete(ctx, msg.ID)
	}
	if err != nil {
		w.logger.Error().Err(err).Int64("msg_id", msg.ID).Bool("archive", archive).Msg("Error acknowledging media message")
	}
}

func (w *Worker) outcome(o string) string {
	metrics.MediaJobs.WithLabelValues(o).Inc()
	return o
}

// Run is the worker entrypoint used by cmd/worker.
func Run(ctx context.Context, logger zerolog.Logger, cfg *config.Config, queue Queue, media StatusWriter, store storage.ObjectStore) error {
	if cfg.MediaMaxRetries < 1 {
		return fmt.Errorf("MEDIA_MAX_RETRIES must be at least 1, got %d", cfg.MediaMaxRetries)
	}
	return NewWorker(queue, media, store, SettingsFromConfig(cfg), logger).Run(ctx)
}
