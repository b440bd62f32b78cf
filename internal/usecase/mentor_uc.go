package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
)

// Compile-time check
var _ MentorUseCase = (*mentorUC)(nil)

// MentorUseCase exposes the mentor catalog: builtin personas plus a user's
// own custom mentors.
type MentorUseCase interface {
	List(ctx context.Context, userID string) ([]*model.Mentor, error)
	Get(ctx context.Context, userID, mentorID string) (*model.Mentor, error)
	CreateCustom(ctx context.Context, userID, name, category, personality, avatarID, voiceID string) (*model.Mentor, error)
	DeleteCustom(ctx context.Context, userID, mentorID string) error
}

type mentorUC struct {
	mentors repository.MentorRepository
	log     *zerolog.Logger
}

func NewMentorUseCase(mentors repository.MentorRepository, logger *zerolog.Logger) *mentorUC {
	return &mentorUC{mentors: mentors, log: logger}
}

func (m *mentorUC) List(ctx context.Context, userID string) ([]*model.Mentor, error) {
	return m.mentors.ListAvailable(ctx, repository.NoTX, userID)
}

// Get enforces visibility: a custom mentor is only returned to its owner.
func (m *mentorUC) Get(ctx context.Context, userID, mentorID string) (*model.Mentor, error) {
	mentor, err := m.mentors.FindByID(ctx, repository.NoTX, mentorID)
	if err != nil {
		return nil, err
	}
	if !mentor.AvailableTo(userID) {
		return nil, domain.ErrMentorNotAvailable
	}
	return mentor, nil
}

func (m *mentorUC) CreateCustom(ctx context.Context, userID, name, category, personality, avatarID, voiceID string) (*model.Mentor, error) {
	defer logging.TraceDuration(m.log, "MentorUC.CreateCustom")()

	mentor, err := model.NewCustomMentor(userID, name, category, personality, avatarID, voiceID)
	if err != nil {
		return nil, err
	}
	if err := m.mentors.Save(ctx, repository.NoTX, mentor); err != nil {
		return nil, err
	}
	m.log.Info().Str("mentor_id", mentor.ID).Str("user_id", userID).Msg("custom mentor created")
	return mentor, nil
}

func (m *mentorUC) DeleteCustom(ctx context.Context, userID, mentorID string) error {
	mentor, err := m.mentors.FindByID(ctx, repository.NoTX, mentorID)
	if err != nil {
		return err
	}
	if mentor.Builtin || mentor.OwnerID != userID {
		return domain.ErrMentorNotAvailable
	}
	return m.mentors.Delete(ctx, repository.NoTX, mentorID)
}
