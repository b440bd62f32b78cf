package adapter

import (
	"context"

	"ai-mentor-platform/internal/domain/model"
)

// ProviderJob is the provider's view of one generation job. Progress is 0
// when the provider does not report one; callers synthesize a cosmetic
// approximation in that case.
type ProviderJob struct {
	ID           string
	Status       model.GenerationStatus
	Progress     int
	ResultURL    string
	ErrorMessage string
}

type VideoJobConfig struct {
	AvatarID string
	VoiceID  string
	Script   string
	Title    string
}

type AvatarJobConfig struct {
	Name            string
	SourceImageURLs []string
}

type VoiceJobConfig struct {
	Name       string
	SampleURLs []string
}

// MediaProviderAdapter is the port for the external video/avatar/voice
// generation service. Jobs are created here and then observed by polling
// GetJob until a terminal status; no webhook delivery is modeled.
type MediaProviderAdapter interface {
	CreateVideoJob(ctx context.Context, cfg VideoJobConfig) (*ProviderJob, error)
	CreateAvatarJob(ctx context.Context, cfg AvatarJobConfig) (*ProviderJob, error)
	CreateVoiceJob(ctx context.Context, cfg VoiceJobConfig) (*ProviderJob, error)
	GetJob(ctx context.Context, providerJobID string) (*ProviderJob, error)
	DeleteJob(ctx context.Context, providerJobID string) error
}
