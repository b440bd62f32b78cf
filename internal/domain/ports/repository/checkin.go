package repository

import (
	"context"
	"time"

	"ai-mentor-platform/internal/domain/model"
)

// -----------------------------
// Check-ins
// -----------------------------

// CheckinRepository persists immutable check-in records. List methods return
// records sorted ascending by CreatedAt, which the insights layer depends on.
type CheckinRepository interface {
	Save(ctx context.Context, tx Tx, c *model.CheckinRecord) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.CheckinRecord, error)
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.CheckinRecord, error)
	ListByUserSince(ctx context.Context, tx Tx, userID string, since time.Time) ([]*model.CheckinRecord, error)
	CountByUserSince(ctx context.Context, tx Tx, userID string, since time.Time) (int, error)
}
