//go:build !integration

package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	ListReminderRecipientsFunc func(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error)
}

func (m *mockUserRepo) ListReminderRecipients(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	return m.ListReminderRecipientsFunc(ctx, tx, limit)
}

type mockCheckinRepo struct {
	repository.CheckinRepository
	CountByUserSinceFunc func(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error)
}

func (m *mockCheckinRepo) CountByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	return m.CountByUserSinceFunc(ctx, tx, userID, since)
}

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, user *model.User, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, user.ID)
	return nil
}

func newTestWorker(users *mockUserRepo, checkins *mockCheckinRepo, notifier *recordingNotifier) *ReminderWorker {
	logger := zerolog.Nop()
	return NewReminderWorker(time.Minute, users, checkins, notifier, &logger)
}

func mustUser(t *testing.T, id, tz string) *model.User {
	t.Helper()
	u, err := model.NewUser(id, id+"@example.com", "User "+id, tz)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	u.RemindersEnabled = true
	return u
}

func TestReminderWorker_RunOnce(t *testing.T) {
	t.Run("nudges only users without a check-in today", func(t *testing.T) {
		// Arrange
		users := &mockUserRepo{
			ListReminderRecipientsFunc: func(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
				return []*model.User{mustUser(t, "u1", "UTC"), mustUser(t, "u2", "UTC")}, nil
			},
		}
		checkins := &mockCheckinRepo{
			CountByUserSinceFunc: func(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
				if userID == "u1" {
					return 1, nil // already checked in
				}
				return 0, nil
			},
		}
		notifier := &recordingNotifier{}
		w := newTestWorker(users, checkins, notifier)

		// Act
		sent, err := w.RunOnce(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sent != 1 {
			t.Errorf("sent = %d, want 1", sent)
		}
		if len(notifier.sent) != 1 || notifier.sent[0] != "u2" {
			t.Errorf("notified %v, want [u2]", notifier.sent)
		}
	})

	t.Run("start of day is computed in the user's timezone", func(t *testing.T) {
		// Arrange: fixed clock at 2026-03-10 02:00 UTC. In Tokyo that is
		// already 11:00 on March 10, so "today" starts at midnight Tokyo time.
		fixed := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
		var gotSince time.Time
		users := &mockUserRepo{
			ListReminderRecipientsFunc: func(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
				return []*model.User{mustUser(t, "u-tokyo", "Asia/Tokyo")}, nil
			},
		}
		checkins := &mockCheckinRepo{
			CountByUserSinceFunc: func(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
				gotSince = since
				return 1, nil
			},
		}
		w := newTestWorker(users, checkins, &recordingNotifier{})
		w.now = func() time.Time { return fixed }

		// Act
		if _, err := w.RunOnce(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Assert
		tokyo, _ := time.LoadLocation("Asia/Tokyo")
		want := time.Date(2026, 3, 10, 0, 0, 0, 0, tokyo)
		if !gotSince.Equal(want) {
			t.Errorf("since = %v, want %v", gotSince, want)
		}
	})

	t.Run("per-user failures do not abort the sweep", func(t *testing.T) {
		// Arrange
		users := &mockUserRepo{
			ListReminderRecipientsFunc: func(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
				return []*model.User{mustUser(t, "u-bad", "UTC"), mustUser(t, "u-good", "UTC")}, nil
			},
		}
		checkins := &mockCheckinRepo{
			CountByUserSinceFunc: func(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
				if userID == "u-bad" {
					return 0, errors.New("db hiccup")
				}
				return 0, nil
			},
		}
		notifier := &recordingNotifier{}
		w := newTestWorker(users, checkins, notifier)

		// Act
		sent, err := w.RunOnce(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sent != 1 || len(notifier.sent) != 1 || notifier.sent[0] != "u-good" {
			t.Errorf("sent=%d notified=%v, want the healthy user only", sent, notifier.sent)
		}
	})
}
