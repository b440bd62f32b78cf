package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
)

// StatusFetcher retrieves a provider job's current state. One call is one
// request-response round trip.
type StatusFetcher func(ctx context.Context, providerJobID string) (*adapter.ProviderJob, error)

// PollCallbacks surface intermediate and terminal observations. All fields
// are optional. OnComplete and OnError are mutually exclusive and fire at
// most once; OnProgress never fires after either.
type PollCallbacks struct {
	OnProgress func(percent int)
	OnComplete func(job *adapter.ProviderJob)
	OnError    func(message string)
}

// JobPoller watches a provider job until it reaches a terminal state.
//
// Checks are strictly sequential: the next one is scheduled only after the
// previous response arrives, so two requests for the same job are never in
// flight together. A failed fetch is terminal for the loop — no transparent
// retry; the caller decides whether to start a fresh watch. Cancelling the
// context stops the loop before the next fetch and suppresses all callbacks.
type JobPoller struct {
	// Interval between status checks. Defaults to 4s.
	Interval time.Duration
	// MaxAttempts caps status checks; 0 means no ceiling and the loop runs
	// until a terminal state, an error, or cancellation.
	MaxAttempts int
}

// ErrPollCeiling is returned when MaxAttempts checks pass without the job
// reaching a terminal state.
var ErrPollCeiling = errors.New("poll attempt ceiling reached")

// Watch blocks until the job is terminal, the fetcher fails, the attempt
// ceiling is hit, or ctx is cancelled. It returns the terminal job on
// completion, and the last observed job (possibly nil) alongside the error
// otherwise.
func (p *JobPoller) Watch(ctx context.Context, providerJobID string, fetch StatusFetcher, cb PollCallbacks) (*adapter.ProviderJob, error) {
	if providerJobID == "" || fetch == nil {
		return nil, domain.ErrInvalidArgument
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 4 * time.Second
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	attempts := 0
	synthetic := 0
	for {
		if p.MaxAttempts > 0 && attempts >= p.MaxAttempts {
			if cb.OnError != nil {
				cb.OnError(ErrPollCeiling.Error())
			}
			return nil, fmt.Errorf("job %s: %w", providerJobID, ErrPollCeiling)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		job, err := fetch(ctx, providerJobID)
		attempts++
		if ctx.Err() != nil {
			// Cancelled mid-fetch: stay silent, the observer is gone.
			return nil, ctx.Err()
		}
		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err.Error())
			}
			return nil, err
		}

		switch job.Status {
		case model.GenerationCompleted:
			if cb.OnComplete != nil {
				cb.OnComplete(job)
			}
			return job, nil
		case model.GenerationError:
			msg := job.ErrorMessage
			if msg == "" {
				msg = domain.ErrGenerationFailed.Error()
			}
			if cb.OnError != nil {
				cb.OnError(msg)
			}
			return job, fmt.Errorf("%w: %s", domain.ErrGenerationFailed, msg)
		default:
			if cb.OnProgress != nil {
				cb.OnProgress(nextPercent(&synthetic, job.Progress))
			}
		}

		timer.Reset(interval)
	}
}

// nextPercent prefers the provider's number, otherwise advances a cosmetic
// monotonic counter capped below 100 so the bar never claims completion.
func nextPercent(synthetic *int, reported int) int {
	if reported > *synthetic {
		*synthetic = reported
	} else if *synthetic < 95 {
		*synthetic += 7
		if *synthetic > 95 {
			*synthetic = 95
		}
	}
	return *synthetic
}
