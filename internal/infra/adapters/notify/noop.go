package notify

import (
	"context"

	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier logs instead of delivering. Used when no channel is configured.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(logger *zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: logger}
}

func (n *NoopNotifier) Send(ctx context.Context, user *model.User, text string) error {
	if user == nil {
		return nil
	}
	n.log.Debug().Str("user_id", user.ID).Str("text", text).Msg("noop notification")
	return nil
}
