package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
	"ai-mentor-platform/internal/infra/redis"
)

// Compile-time check
var _ StudioUseCase = (*studioUC)(nil)

const (
	studioRateLimit  = 5
	studioRateWindow = time.Hour
)

// StudioUseCase launches media generation jobs at the external provider:
// mentor videos rendered from a check-in reply, custom avatars and custom
// voices. Jobs are queued here and driven to completion by the background
// processor.
type StudioUseCase interface {
	RequestVideo(ctx context.Context, userID, checkinID string) (*model.GenerationJob, error)
	RequestAvatar(ctx context.Context, userID, name string, sourceImageURLs []string) (*model.GenerationJob, error)
	RequestVoice(ctx context.Context, userID, name string, sampleURLs []string) (*model.GenerationJob, error)
	Job(ctx context.Context, userID, jobID string) (*model.GenerationJob, error)
	CancelJob(ctx context.Context, userID, jobID string) error
	ListJobs(ctx context.Context, userID string, limit int) ([]*model.GenerationJob, error)
}

type studioUC struct {
	jobs     repository.GenerationJobRepository
	checkins repository.CheckinRepository
	mentors  repository.MentorRepository
	provider adapter.MediaProviderAdapter
	limiter  *redis.RateLimiter
	log      *zerolog.Logger
}

func NewStudioUseCase(
	jobs repository.GenerationJobRepository,
	checkins repository.CheckinRepository,
	mentors repository.MentorRepository,
	provider adapter.MediaProviderAdapter,
	limiter *redis.RateLimiter,
	logger *zerolog.Logger,
) *studioUC {
	return &studioUC{
		jobs:     jobs,
		checkins: checkins,
		mentors:  mentors,
		provider: provider,
		limiter:  limiter,
		log:      logger,
	}
}

func (s *studioUC) allow(ctx context.Context, userID string) error {
	ok, err := s.limiter.Allow(ctx, redis.UserActionKey(userID, "studio"), studioRateLimit, studioRateWindow)
	if err != nil {
		s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing")
		return nil
	}
	if !ok {
		return domain.ErrRateLimited
	}
	return nil
}

// RequestVideo turns a check-in's mentor reply into a talking-head video of
// that mentor.
func (s *studioUC) RequestVideo(ctx context.Context, userID, checkinID string) (*model.GenerationJob, error) {
	defer logging.TraceDuration(s.log, "StudioUC.RequestVideo")()

	if err := s.allow(ctx, userID); err != nil {
		return nil, err
	}

	checkin, err := s.checkins.FindByID(ctx, repository.NoTX, checkinID)
	if err != nil {
		return nil, err
	}
	if checkin.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if checkin.MentorReply == "" {
		return nil, domain.ErrInvalidArgument
	}

	mentor, err := s.mentors.FindByID(ctx, repository.NoTX, checkin.MentorID)
	if err != nil {
		return nil, err
	}

	providerJob, err := s.provider.CreateVideoJob(ctx, adapter.VideoJobConfig{
		AvatarID: mentor.AvatarID,
		VoiceID:  mentor.VoiceID,
		Script:   checkin.MentorReply,
		Title:    fmt.Sprintf("%s on %s", mentor.Name, checkin.CreatedAt.Format("2006-01-02")),
	})
	if err != nil {
		return nil, err
	}

	return s.enqueue(ctx, userID, mentor.ID, model.GenerationKindVideo, providerJob.ID)
}

func (s *studioUC) RequestAvatar(ctx context.Context, userID, name string, sourceImageURLs []string) (*model.GenerationJob, error) {
	defer logging.TraceDuration(s.log, "StudioUC.RequestAvatar")()

	if err := s.allow(ctx, userID); err != nil {
		return nil, err
	}
	if name == "" || len(sourceImageURLs) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	providerJob, err := s.provider.CreateAvatarJob(ctx, adapter.AvatarJobConfig{
		Name:            name,
		SourceImageURLs: sourceImageURLs,
	})
	if err != nil {
		return nil, err
	}
	return s.enqueue(ctx, userID, "", model.GenerationKindAvatar, providerJob.ID)
}

func (s *studioUC) RequestVoice(ctx context.Context, userID, name string, sampleURLs []string) (*model.GenerationJob, error) {
	defer logging.TraceDuration(s.log, "StudioUC.RequestVoice")()

	if err := s.allow(ctx, userID); err != nil {
		return nil, err
	}
	if name == "" || len(sampleURLs) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	providerJob, err := s.provider.CreateVoiceJob(ctx, adapter.VoiceJobConfig{
		Name:       name,
		SampleURLs: sampleURLs,
	})
	if err != nil {
		return nil, err
	}
	return s.enqueue(ctx, userID, "", model.GenerationKindVoice, providerJob.ID)
}

func (s *studioUC) enqueue(ctx context.Context, userID, mentorID string, kind model.GenerationKind, providerJobID string) (*model.GenerationJob, error) {
	job, err := model.NewGenerationJob(userID, mentorID, kind, providerJobID)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, repository.NoTX, job); err != nil {
		// The provider job is now an orphan; best effort cleanup.
		if delErr := s.provider.DeleteJob(ctx, providerJobID); delErr != nil {
			s.log.Warn().Err(delErr).Str("provider_job_id", providerJobID).Msg("cleanup orphaned provider job")
		}
		return nil, err
	}
	s.log.Info().Str("job_id", job.ID).Str("kind", string(kind)).Msg("generation job queued")
	return job, nil
}

func (s *studioUC) Job(ctx context.Context, userID, jobID string) (*model.GenerationJob, error) {
	job, err := s.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// CancelJob deletes the job at the provider and marks it failed locally.
// Terminal jobs cannot be cancelled.
func (s *studioUC) CancelJob(ctx context.Context, userID, jobID string) error {
	job, err := s.Job(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return domain.ErrJobTerminal
	}
	if err := s.provider.DeleteJob(ctx, job.ProviderJobID); err != nil {
		return err
	}
	if err := job.Fail("cancelled by user"); err != nil {
		return err
	}
	return s.jobs.Save(ctx, repository.NoTX, job)
}

func (s *studioUC) ListJobs(ctx context.Context, userID string, limit int) ([]*model.GenerationJob, error) {
	return s.jobs.ListByUser(ctx, repository.NoTX, userID, limit)
}
