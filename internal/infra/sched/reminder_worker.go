package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/domain/ports/repository"
)

const reminderBatchSize = 500

// ReminderWorker periodically nudges users who opted into reminders and have
// not checked in yet today. "Today" is evaluated in each user's own timezone,
// so a worker tick at 20:00 UTC nudges Berlin but not Los Angeles.
type ReminderWorker struct {
	interval time.Duration
	users    repository.UserRepository
	checkins repository.CheckinRepository
	notifier adapter.Notifier
	now      func() time.Time
	log      *zerolog.Logger
}

func NewReminderWorker(
	interval time.Duration,
	users repository.UserRepository,
	checkins repository.CheckinRepository,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		users:    users,
		checkins: checkins,
		notifier: notifier,
		now:      time.Now,
		log:      &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting reminder worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			sent, err := w.RunOnce(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("reminder sweep failed")
			}
			if sent > 0 {
				w.log.Info().Int("count", sent).Msg("reminders sent")
			}
		}
	}
}

// RunOnce performs a single sweep and reports how many nudges went out.
// A per-user failure is logged and skipped; it never aborts the sweep.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	users, err := w.users.ListReminderRecipients(ctx, repository.NoTX, reminderBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		loc := u.Location()
		local := w.now().In(loc)
		startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		n, err := w.checkins.CountByUserSince(ctx, repository.NoTX, u.ID, startOfDay)
		if err != nil {
			w.log.Warn().Err(err).Str("user_id", u.ID).Msg("count today's check-ins")
			continue
		}
		if n > 0 {
			continue
		}

		msg := "You haven't checked in today. A two-minute check-in keeps the streak alive."
		if err := w.notifier.Send(ctx, u, msg); err != nil {
			w.log.Warn().Err(err).Str("user_id", u.ID).Msg("send reminder")
			continue
		}
		sent++
	}
	return sent, nil
}
