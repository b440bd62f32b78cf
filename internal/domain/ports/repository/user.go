package repository

import (
	"context"

	"ai-mentor-platform/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

// Credentials pairs a user with their password hash. The hash never travels
// on the User entity itself.
type Credentials struct {
	UserID       string
	PasswordHash []byte
}

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	SaveCredentials(ctx context.Context, tx Tx, userID string, passwordHash []byte) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	CredentialsByEmail(ctx context.Context, tx Tx, email string) (*Credentials, error)
	// ListReminderRecipients returns users who opted into reminders.
	ListReminderRecipients(ctx context.Context, tx Tx, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
