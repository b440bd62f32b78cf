package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/insights"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
	"ai-mentor-platform/internal/infra/redis"
)

// Compile-time check
var _ InsightsUseCase = (*insightsUC)(nil)

// InsightsUseCase serves the dashboard's aggregated progress report.
type InsightsUseCase interface {
	Report(ctx context.Context, userID string, windowDays int) (*insights.Report, error)
	Invalidate(ctx context.Context, userID string) error
}

type insightsUC struct {
	checkins repository.CheckinRepository
	cache    *redis.InsightsCache
	now      func() time.Time
	log      *zerolog.Logger
}

func NewInsightsUseCase(checkins repository.CheckinRepository, cache *redis.InsightsCache, logger *zerolog.Logger) *insightsUC {
	return &insightsUC{checkins: checkins, cache: cache, now: time.Now, log: logger}
}

func allowedWindow(days int) bool {
	for _, w := range insightWindows {
		if w == days {
			return true
		}
	}
	return false
}

func (i *insightsUC) Report(ctx context.Context, userID string, windowDays int) (*insights.Report, error) {
	defer logging.TraceDuration(i.log, "InsightsUC.Report")()

	if !allowedWindow(windowDays) {
		return nil, domain.ErrInvalidArgument
	}

	if cached, err := i.cache.Get(ctx, userID, windowDays); err == nil && cached != nil {
		return cached, nil
	} else if err != nil && !errors.Is(err, redis.Nil) {
		i.log.Warn().Err(err).Msg("insight cache read")
	}

	now := i.now()
	since := now.AddDate(0, 0, -windowDays)
	records, err := i.checkins.ListByUserSince(ctx, repository.NoTX, userID, since)
	if err != nil {
		return nil, err
	}

	// BuildReport works on values; reflections stay encrypted and unread.
	flat := make([]model.CheckinRecord, len(records))
	for idx, r := range records {
		flat[idx] = *r
	}
	report := insights.BuildReport(flat, windowDays, now)

	if err := i.cache.Store(ctx, userID, windowDays, report); err != nil {
		i.log.Warn().Err(err).Msg("insight cache write")
	}
	return report, nil
}

func (i *insightsUC) Invalidate(ctx context.Context, userID string) error {
	return i.cache.Invalidate(ctx, userID, insightWindows...)
}
