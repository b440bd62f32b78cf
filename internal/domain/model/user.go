package model

import (
	"strings"
	"time"

	"ai-mentor-platform/internal/domain"

	"github.com/google/uuid"
)

// User is a domain entity representing an account on the platform.
// The password hash is owned by the user repository, never by the entity,
// so it cannot leak through API serialization.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Timezone     string // IANA name, e.g. "America/Sao_Paulo"
	RegisteredAt time.Time
	LastActiveAt time.Time

	// Reminder delivery.
	RemindersEnabled bool
	TelegramChatID   int64 // 0 when the user has not linked a chat
}

func NewUser(id, email, displayName, timezone string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		Timezone:     timezone,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

// Location resolves the user's timezone, falling back to UTC on bad data.
func (u *User) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
