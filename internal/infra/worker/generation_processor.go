package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
	"ai-mentor-platform/internal/infra/metrics"
)

// GenerationProcessor sweeps queued generation jobs and watches each one at
// the provider until it lands in a terminal state. Claiming is atomic at the
// repository, so several processor instances can run side by side.
type GenerationProcessor struct {
	jobs     repository.GenerationJobRepository
	users    repository.UserRepository
	provider adapter.MediaProviderAdapter
	notifier adapter.Notifier
	poller   *JobPoller
	log      *zerolog.Logger

	sweepEvery time.Duration
}

func NewGenerationProcessor(
	jobs repository.GenerationJobRepository,
	users repository.UserRepository,
	provider adapter.MediaProviderAdapter,
	notifier adapter.Notifier,
	poller *JobPoller,
	logger *zerolog.Logger,
) *GenerationProcessor {
	return &GenerationProcessor{
		jobs:       jobs,
		users:      users,
		provider:   provider,
		notifier:   notifier,
		poller:     poller,
		log:        logger,
		sweepEvery: 2 * time.Second,
	}
}

// Start claims queued jobs on a fixed cadence and hands each to the pool.
// Blocks until ctx is cancelled.
func (gp *GenerationProcessor) Start(ctx context.Context, pool *Pool) {
	ticker := time.NewTicker(gp.sweepEvery)
	defer ticker.Stop()

	gp.log.Info().Dur("sweep_every", gp.sweepEvery).Msg("generation processor started")
	for {
		select {
		case <-ctx.Done():
			gp.log.Info().Msg("generation processor stopped")
			return
		case <-ticker.C:
			gp.sweep(ctx, pool)
		}
	}
}

func (gp *GenerationProcessor) sweep(ctx context.Context, pool *Pool) {
	for {
		job, err := gp.jobs.ClaimQueued(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return
		}
		if err != nil {
			gp.log.Error().Err(err).Msg("claim queued generation job")
			return
		}

		j := job
		if err := pool.Submit(func(taskCtx context.Context) error {
			return gp.process(taskCtx, j)
		}); err != nil {
			// Queue saturated. Put the row back so the next sweep finds it.
			gp.log.Warn().Str("job_id", j.ID).Msg("pool full, requeueing job")
			_ = j.Advance(model.GenerationQueued, j.Progress)
			if saveErr := gp.jobs.Save(ctx, repository.NoTX, j); saveErr != nil {
				gp.log.Error().Err(saveErr).Str("job_id", j.ID).Msg("requeue generation job")
			}
			return
		}
	}
}

// process watches one claimed job to completion and persists every
// observation. The terminal write happens exactly once.
func (gp *GenerationProcessor) process(ctx context.Context, job *model.GenerationJob) error {
	ctx = logging.WithJobID(ctx, job.ID)
	log := logging.With(ctx, gp.log)
	log.Info().
		Str("kind", string(job.Kind)).
		Str("provider_job_id", job.ProviderJobID).
		Msg("watching generation job")

	metrics.JobWatchStarted()
	defer metrics.JobWatchFinished()

	attempts := 0
	fetch := func(fctx context.Context, providerJobID string) (*adapter.ProviderJob, error) {
		attempts++
		return gp.provider.GetJob(fctx, providerJobID)
	}

	cb := PollCallbacks{
		OnProgress: func(percent int) {
			if err := job.Advance(model.GenerationGenerating, percent); err != nil {
				return
			}
			if err := gp.jobs.Save(ctx, repository.NoTX, job); err != nil {
				log.Warn().Err(err).Msg("persist job progress")
			}
		},
	}

	final, watchErr := gp.poller.Watch(ctx, job.ProviderJobID, fetch, cb)
	metrics.ObservePollAttempts(attempts)

	if watchErr != nil && (errors.Is(watchErr, context.Canceled) || errors.Is(watchErr, context.DeadlineExceeded)) {
		// Shutting down mid-watch. Leave the row as-is; a future sweep will
		// not reclaim it (it is marked generating), but the provider keeps
		// the authoritative state and a manual requeue recovers it.
		return watchErr
	}

	switch {
	case watchErr == nil && final != nil:
		if err := job.Complete(final.ResultURL); err != nil {
			return err
		}
		metrics.IncGenerationJob(string(job.Kind), string(model.GenerationCompleted))
	default:
		msg := "generation failed"
		if final != nil && final.ErrorMessage != "" {
			msg = final.ErrorMessage
		} else if watchErr != nil {
			msg = watchErr.Error()
		}
		if err := job.Fail(msg); err != nil {
			return err
		}
		metrics.IncGenerationJob(string(job.Kind), string(model.GenerationError))
	}

	if err := gp.jobs.Save(ctx, repository.NoTX, job); err != nil {
		return fmt.Errorf("persist terminal job state: %w", err)
	}

	log.Info().
		Str("status", string(job.Status)).
		Int("attempts", attempts).
		Msg("generation job finished")

	if job.Status == model.GenerationCompleted {
		gp.notifyDone(ctx, job)
	}
	return nil
}

func (gp *GenerationProcessor) notifyDone(ctx context.Context, job *model.GenerationJob) {
	user, err := gp.users.FindByID(ctx, repository.NoTX, job.UserID)
	if err != nil {
		gp.log.Warn().Err(err).Str("user_id", job.UserID).Msg("load user for completion notice")
		return
	}
	text := fmt.Sprintf("Your %s is ready: %s", job.Kind, job.ResultURL)
	if err := gp.notifier.Send(ctx, user, text); err != nil {
		gp.log.Warn().Err(err).Str("user_id", job.UserID).Msg("send completion notice")
	}
}
