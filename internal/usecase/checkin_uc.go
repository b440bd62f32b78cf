package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
	"ai-mentor-platform/internal/infra/metrics"
	"ai-mentor-platform/internal/infra/redis"
	"ai-mentor-platform/internal/infra/security"
)

// Compile-time check
var _ CheckinUseCase = (*checkinUC)(nil)

const (
	checkinRateLimit  = 10
	checkinRateWindow = time.Hour
)

// insightWindows are the report windows served by the dashboard; a new
// check-in stales all of them.
var insightWindows = []int{7, 30, 90}

// CheckinInput is everything the user supplies for one daily check-in.
type CheckinInput struct {
	MentorID   string
	MoodScore  int
	Goals      []model.GoalEntry
	Reflection string
}

// CheckinUseCase records daily check-ins and generates the mentor's reply.
type CheckinUseCase interface {
	Submit(ctx context.Context, userID string, in CheckinInput) (*model.CheckinRecord, error)
	List(ctx context.Context, userID string, limit int) ([]*model.CheckinRecord, error)
	Get(ctx context.Context, userID, checkinID string) (*model.CheckinRecord, error)
}

type checkinUC struct {
	checkins repository.CheckinRepository
	mentors  repository.MentorRepository
	ai       adapter.AIServiceAdapter
	enc      *security.EncryptionService
	limiter  *redis.RateLimiter
	insights *redis.InsightsCache
	model    string
	now      func() time.Time
	log      *zerolog.Logger
}

func NewCheckinUseCase(
	checkins repository.CheckinRepository,
	mentors repository.MentorRepository,
	ai adapter.AIServiceAdapter,
	enc *security.EncryptionService,
	limiter *redis.RateLimiter,
	insightsCache *redis.InsightsCache,
	aiModel string,
	logger *zerolog.Logger,
) *checkinUC {
	return &checkinUC{
		checkins: checkins,
		mentors:  mentors,
		ai:       ai,
		enc:      enc,
		limiter:  limiter,
		insights: insightsCache,
		model:    aiModel,
		now:      time.Now,
		log:      logger,
	}
}

func (c *checkinUC) Submit(ctx context.Context, userID string, in CheckinInput) (*model.CheckinRecord, error) {
	defer logging.TraceDuration(c.log, "CheckinUC.Submit")()
	log := logging.With(ctx, c.log)

	ok, err := c.limiter.Allow(ctx, redis.UserActionKey(userID, "checkin"), checkinRateLimit, checkinRateWindow)
	if err != nil {
		// Limiter outage must not block check-ins.
		log.Warn().Err(err).Msg("rate limiter unavailable, allowing")
	} else if !ok {
		return nil, domain.ErrRateLimited
	}

	mentor, err := c.mentors.FindByID(ctx, repository.NoTX, in.MentorID)
	if err != nil {
		return nil, err
	}
	if !mentor.AvailableTo(userID) {
		return nil, domain.ErrMentorNotAvailable
	}

	record, err := model.NewCheckin(userID, mentor.ID, in.MoodScore, in.Goals, in.Reflection, c.now())
	if err != nil {
		return nil, err
	}

	record.MentorReply = c.generateReply(ctx, mentor, record)

	// Reflections are the most personal field we hold; encrypt before the
	// row leaves the process.
	if record.Reflection != "" {
		sealed, err := c.enc.Encrypt(record.Reflection)
		if err != nil {
			return nil, err
		}
		record.Reflection = sealed
	}

	if err := c.checkins.Save(ctx, repository.NoTX, record); err != nil {
		return nil, err
	}
	metrics.ObserveCheckin(record.MoodScore)

	if err := c.insights.Invalidate(ctx, userID, insightWindows...); err != nil {
		log.Warn().Err(err).Msg("invalidate insight cache")
	}

	// Hand back plaintext; the caller never sees ciphertext.
	record.Reflection = in.Reflection
	log.Info().Str("checkin_id", record.ID).Str("mentor_id", mentor.ID).Msg("check-in recorded")
	return record, nil
}

// generateReply asks the mentor persona for a short response. Failures
// degrade to a canned line; the check-in itself must never fail because the
// model did.
func (c *checkinUC) generateReply(ctx context.Context, mentor *model.Mentor, record *model.CheckinRecord) string {
	started := time.Now()
	messages := []adapter.Message{
		{Role: "system", Content: mentorSystemPrompt(mentor)},
		{Role: "user", Content: checkinPrompt(record)},
	}

	reply, usage, err := c.ai.ChatWithUsage(ctx, c.model, messages)
	latency := time.Since(started).Milliseconds()
	if err != nil {
		metrics.ObserveMentorReply(c.model, 0, 0, latency, false)
		c.log.Warn().Err(err).Str("mentor_id", mentor.ID).Msg("mentor reply generation failed")
		return fmt.Sprintf("%s couldn't reply right now, but your check-in is saved. Keep going.", mentor.Name)
	}
	metrics.ObserveMentorReply(c.model, usage.PromptTokens, usage.CompletionTokens, latency, true)
	return reply
}

func mentorSystemPrompt(m *model.Mentor) string {
	return fmt.Sprintf(
		"You are %s, a %s mentor. Personality: %s. "+
			"Reply to the user's daily check-in in under 120 words. "+
			"Acknowledge their mood, comment on goal progress, and end with one concrete nudge for tomorrow.",
		m.Name, m.Category, m.Personality,
	)
}

func checkinPrompt(r *model.CheckinRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mood today: %d/10.\n", r.MoodScore)
	for _, g := range r.Goals {
		state := "missed"
		if g.Completed {
			state = "done"
		}
		fmt.Fprintf(&b, "Goal %q: %s", g.Text, state)
		if g.Notes != "" {
			fmt.Fprintf(&b, " (%s)", g.Notes)
		}
		b.WriteString("\n")
	}
	if r.Reflection != "" {
		fmt.Fprintf(&b, "Reflection: %s\n", r.Reflection)
	}
	return b.String()
}

func (c *checkinUC) List(ctx context.Context, userID string, limit int) ([]*model.CheckinRecord, error) {
	records, err := c.checkins.ListByUser(ctx, repository.NoTX, userID, limit)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := c.decrypt(r); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (c *checkinUC) Get(ctx context.Context, userID, checkinID string) (*model.CheckinRecord, error) {
	record, err := c.checkins.FindByID(ctx, repository.NoTX, checkinID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if err := c.decrypt(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *checkinUC) decrypt(r *model.CheckinRecord) error {
	if r.Reflection == "" {
		return nil
	}
	plain, err := c.enc.Decrypt(r.Reflection)
	if err != nil {
		return fmt.Errorf("decrypt reflection for %s: %w", r.ID, err)
	}
	r.Reflection = plain
	return nil
}
