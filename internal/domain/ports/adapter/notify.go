package adapter

import (
	"context"

	"ai-mentor-platform/internal/domain/model"
)

// Notifier delivers short out-of-band messages to a user: daily check-in
// nudges and generation-finished notices. Implementations decide the channel
// and silently skip users with no linked destination.
type Notifier interface {
	Send(ctx context.Context, user *model.User, text string) error
}
