//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/infra/redis"
)

func newInsightsFixture() (*insightsUC, *memCheckinRepo, *mockRedis) {
	logger := zerolog.Nop()
	checkins := newMemCheckinRepo()
	rds := newMockRedis()
	uc := NewInsightsUseCase(checkins, redis.NewInsightsCache(rds, time.Minute), &logger)
	return uc, checkins, rds
}

func seedCheckin(t *testing.T, repo *memCheckinRepo, userID string, at time.Time, mood int) {
	t.Helper()
	c, err := model.NewCheckin(userID, "m-coach", mood, []model.GoalEntry{{Text: "run", Completed: true}}, "", at)
	if err != nil {
		t.Fatalf("NewCheckin: %v", err)
	}
	if err := repo.Save(context.Background(), nil, c); err != nil {
		t.Fatalf("save checkin: %v", err)
	}
}

func TestInsightsUC_Report(t *testing.T) {
	t.Run("builds a report from the window's check-ins", func(t *testing.T) {
		// Arrange
		uc, checkins, _ := newInsightsFixture()
		fixed := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return fixed }
		for i := 0; i < 3; i++ {
			seedCheckin(t, checkins, "u1", fixed.AddDate(0, 0, -i), 7)
		}
		// Outside the 7-day window; must not count.
		seedCheckin(t, checkins, "u1", fixed.AddDate(0, 0, -20), 2)

		// Act
		report, err := uc.Report(context.Background(), "u1", 7)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.SampleSize != 3 {
			t.Errorf("SampleSize = %d, want 3 (stale record excluded)", report.SampleSize)
		}
		if report.Streaks.Current != 3 {
			t.Errorf("current streak = %d, want 3", report.Streaks.Current)
		}
		if report.Insufficient {
			t.Error("report should not be flagged insufficient at 3 check-ins")
		}
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		// Arrange
		uc, checkins, _ := newInsightsFixture()
		fixed := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return fixed }
		seedCheckin(t, checkins, "u1", fixed, 5)

		first, err := uc.Report(context.Background(), "u1", 30)
		if err != nil {
			t.Fatalf("first report: %v", err)
		}

		// Act: new check-in lands but the cache has not been invalidated.
		seedCheckin(t, checkins, "u1", fixed.Add(-time.Hour), 9)
		second, err := uc.Report(context.Background(), "u1", 30)

		// Assert
		if err != nil {
			t.Fatalf("second report: %v", err)
		}
		if second.SampleSize != first.SampleSize {
			t.Errorf("expected cached report (sample %d), got recomputed sample %d", first.SampleSize, second.SampleSize)
		}
	})

	t.Run("invalidate forces a recompute", func(t *testing.T) {
		// Arrange
		uc, checkins, _ := newInsightsFixture()
		fixed := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return fixed }
		seedCheckin(t, checkins, "u1", fixed, 5)
		if _, err := uc.Report(context.Background(), "u1", 30); err != nil {
			t.Fatalf("warm cache: %v", err)
		}
		seedCheckin(t, checkins, "u1", fixed.Add(-time.Hour), 9)

		// Act
		if err := uc.Invalidate(context.Background(), "u1"); err != nil {
			t.Fatalf("invalidate: %v", err)
		}
		report, err := uc.Report(context.Background(), "u1", 30)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.SampleSize != 2 {
			t.Errorf("SampleSize = %d, want 2 after invalidation", report.SampleSize)
		}
	})

	t.Run("rejects windows the dashboard does not serve", func(t *testing.T) {
		uc, _, _ := newInsightsFixture()

		_, err := uc.Report(context.Background(), "u1", 13)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty history yields an insufficient report, not an error", func(t *testing.T) {
		uc, _, _ := newInsightsFixture()

		report, err := uc.Report(context.Background(), "u-empty", 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Insufficient || report.SampleSize != 0 {
			t.Errorf("want empty insufficient report, got %+v", report)
		}
	})
}
