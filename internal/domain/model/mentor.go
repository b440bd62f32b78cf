package model

import (
	"strings"
	"time"

	"ai-mentor-platform/internal/domain"

	"github.com/google/uuid"
)

// Mentor is a configured AI persona. Builtin mentors ship with the platform
// and have no owner; custom mentors belong to the user who trained them and
// reference that user's avatar/voice assets at the media provider.
type Mentor struct {
	ID          string
	Name        string
	Category    string // e.g. "fitness", "career", "mindfulness"
	Personality string // system prompt fragment describing tone and style
	AvatarID    string // provider-side avatar asset
	VoiceID     string // provider-side voice asset
	Builtin     bool
	OwnerID     string // empty for builtin mentors
	CreatedAt   time.Time
}

func NewBuiltinMentor(id, name, category, personality, avatarID, voiceID string) (*Mentor, error) {
	m, err := newMentor(id, name, category, personality, avatarID, voiceID)
	if err != nil {
		return nil, err
	}
	m.Builtin = true
	return m, nil
}

func NewCustomMentor(ownerID, name, category, personality, avatarID, voiceID string) (*Mentor, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	m, err := newMentor("", name, category, personality, avatarID, voiceID)
	if err != nil {
		return nil, err
	}
	m.OwnerID = ownerID
	return m, nil
}

func newMentor(id, name, category, personality, avatarID, voiceID string) (*Mentor, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(personality) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Mentor{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Category:    strings.TrimSpace(category),
		Personality: strings.TrimSpace(personality),
		AvatarID:    avatarID,
		VoiceID:     voiceID,
		CreatedAt:   time.Now(),
	}, nil
}

// AvailableTo reports whether a user may use this mentor.
func (m *Mentor) AvailableTo(userID string) bool {
	return m.Builtin || m.OwnerID == userID
}
