package repository

import (
	"context"

	"ai-mentor-platform/internal/domain/model"
)

// -----------------------------
// Mentors
// -----------------------------

type MentorRepository interface {
	Save(ctx context.Context, tx Tx, m *model.Mentor) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Mentor, error)
	// ListAvailable returns builtin mentors plus the user's custom mentors.
	ListAvailable(ctx context.Context, tx Tx, userID string) ([]*model.Mentor, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
