//go:build !integration

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/infra/redis"
	"ai-mentor-platform/internal/infra/security"
)

const testEncKey = "0123456789abcdef0123456789abcdef" // 32 bytes

type checkinFixture struct {
	uc       *checkinUC
	checkins *memCheckinRepo
	mentors  *memMentorRepo
	ai       *fakeAI
	rds      *mockRedis
	enc      *security.EncryptionService
}

func newCheckinFixture(t *testing.T) *checkinFixture {
	t.Helper()
	enc, err := security.NewEncryptionService(testEncKey)
	if err != nil {
		t.Fatalf("NewEncryptionService: %v", err)
	}
	logger := zerolog.Nop()
	checkins := newMemCheckinRepo()
	mentors := newMemMentorRepo()
	ai := &fakeAI{reply: "Nice work today. Tomorrow, start with the hard goal first."}
	rds := newMockRedis()

	uc := NewCheckinUseCase(
		checkins, mentors, ai, enc,
		redis.NewRateLimiter(rds),
		redis.NewInsightsCache(rds, time.Minute),
		"fake-model",
		&logger,
	)
	return &checkinFixture{uc: uc, checkins: checkins, mentors: mentors, ai: ai, rds: rds, enc: enc}
}

func (f *checkinFixture) seedMentor(t *testing.T) *model.Mentor {
	t.Helper()
	mentor, err := model.NewBuiltinMentor("m-coach", "Coach Dana", "fitness", "direct, warm", "av-1", "vo-1")
	if err != nil {
		t.Fatalf("NewBuiltinMentor: %v", err)
	}
	if err := f.mentors.Save(context.Background(), nil, mentor); err != nil {
		t.Fatalf("seed mentor: %v", err)
	}
	return mentor
}

func TestCheckinUC_Submit(t *testing.T) {
	t.Run("records the check-in with a mentor reply", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)
		in := CheckinInput{
			MentorID:  mentor.ID,
			MoodScore: 7,
			Goals: []model.GoalEntry{
				{Text: "morning run", Completed: true},
				{Text: "read 20 pages", Completed: false, Notes: "fell asleep"},
			},
			Reflection: "long day but the run helped",
		}

		// Act
		record, err := f.uc.Submit(context.Background(), "u1", in)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if record.MentorReply != f.ai.reply {
			t.Errorf("MentorReply = %q, want the AI reply", record.MentorReply)
		}
		if record.Reflection != in.Reflection {
			t.Errorf("caller got reflection %q, want plaintext back", record.Reflection)
		}
		stored, err := f.checkins.FindByID(context.Background(), nil, record.ID)
		if err != nil {
			t.Fatalf("stored record not found: %v", err)
		}
		if stored.Reflection == in.Reflection || stored.Reflection == "" {
			t.Error("stored reflection should be ciphertext, not plaintext or empty")
		}
		if plain, err := f.enc.Decrypt(stored.Reflection); err != nil || plain != in.Reflection {
			t.Errorf("stored reflection does not decrypt to original: %q, %v", plain, err)
		}
	})

	t.Run("AI failure degrades to a canned reply, check-in still saved", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)
		f.ai.err = errors.New("model overloaded")

		// Act
		record, err := f.uc.Submit(context.Background(), "u1", CheckinInput{
			MentorID:  mentor.ID,
			MoodScore: 4,
			Goals:     []model.GoalEntry{{Text: "meditate"}},
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(record.MentorReply, mentor.Name) {
			t.Errorf("fallback reply should mention the mentor, got %q", record.MentorReply)
		}
		if _, err := f.checkins.FindByID(context.Background(), nil, record.ID); err != nil {
			t.Errorf("check-in should be persisted despite AI failure: %v", err)
		}
	})

	t.Run("rejects a mentor the user cannot see", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		custom, err := model.NewCustomMentor("owner-1", "Private Mentor", "career", "strict", "", "")
		if err != nil {
			t.Fatalf("NewCustomMentor: %v", err)
		}
		if err := f.mentors.Save(context.Background(), nil, custom); err != nil {
			t.Fatalf("seed mentor: %v", err)
		}

		// Act
		_, err = f.uc.Submit(context.Background(), "someone-else", CheckinInput{
			MentorID:  custom.ID,
			MoodScore: 5,
		})

		// Assert
		if !errors.Is(err, domain.ErrMentorNotAvailable) {
			t.Fatalf("expected ErrMentorNotAvailable, got %v", err)
		}
	})

	t.Run("enforces the submission rate limit", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)
		in := CheckinInput{MentorID: mentor.ID, MoodScore: 6}

		// Act: burn the window
		var err error
		for i := 0; i < checkinRateLimit; i++ {
			if _, err = f.uc.Submit(context.Background(), "u1", in); err != nil {
				t.Fatalf("submit %d failed early: %v", i+1, err)
			}
		}
		_, err = f.uc.Submit(context.Background(), "u1", in)

		// Assert
		if !errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("invalid mood score is rejected", func(t *testing.T) {
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)

		_, err := f.uc.Submit(context.Background(), "u1", CheckinInput{MentorID: mentor.ID, MoodScore: 11})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestCheckinUC_ListAndGet(t *testing.T) {
	t.Run("list decrypts reflections", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)
		submitted, err := f.uc.Submit(context.Background(), "u1", CheckinInput{
			MentorID:   mentor.ID,
			MoodScore:  8,
			Reflection: "shipped the feature",
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}

		// Act
		list, err := f.uc.List(context.Background(), "u1", 10)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 1 || list[0].ID != submitted.ID {
			t.Fatalf("expected the submitted record, got %v", list)
		}
		if list[0].Reflection != "shipped the feature" {
			t.Errorf("Reflection = %q, want decrypted plaintext", list[0].Reflection)
		}
	})

	t.Run("get hides other users' records", func(t *testing.T) {
		// Arrange
		f := newCheckinFixture(t)
		mentor := f.seedMentor(t)
		record, err := f.uc.Submit(context.Background(), "u1", CheckinInput{MentorID: mentor.ID, MoodScore: 5})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}

		// Act
		_, err = f.uc.Get(context.Background(), "u2", record.ID)

		// Assert
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for foreign record, got %v", err)
		}
	})
}
