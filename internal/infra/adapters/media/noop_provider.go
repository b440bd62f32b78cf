package media

import (
	"context"
	"fmt"
	"sync"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
)

var _ adapter.MediaProviderAdapter = (*NoopProvider)(nil)

// NoopProvider simulates the media provider for local/demo mode (no API key
// configured). Jobs advance deterministically: each status check moves
// progress forward by a fixed step and the job completes on the fourth
// check, so the dashboard's polling UI can be exercised end to end.
type NoopProvider struct {
	mu   sync.Mutex
	seq  int
	jobs map[string]*noopJob
}

type noopJob struct {
	kind  string
	polls int
}

const noopPollStep = 30 // percent per status check; completes at poll 4

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{jobs: make(map[string]*noopJob)}
}

func (p *NoopProvider) CreateVideoJob(ctx context.Context, cfg adapter.VideoJobConfig) (*adapter.ProviderJob, error) {
	return p.create("video"), nil
}

func (p *NoopProvider) CreateAvatarJob(ctx context.Context, cfg adapter.AvatarJobConfig) (*adapter.ProviderJob, error) {
	return p.create("avatar"), nil
}

func (p *NoopProvider) CreateVoiceJob(ctx context.Context, cfg adapter.VoiceJobConfig) (*adapter.ProviderJob, error) {
	return p.create("voice"), nil
}

func (p *NoopProvider) create(kind string) *adapter.ProviderJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	id := fmt.Sprintf("noop-%s-%d", kind, p.seq)
	p.jobs[id] = &noopJob{kind: kind}
	return &adapter.ProviderJob{ID: id, Status: model.GenerationQueued}
}

func (p *NoopProvider) GetJob(ctx context.Context, providerJobID string) (*adapter.ProviderJob, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	j, ok := p.jobs[providerJobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	j.polls++

	progress := j.polls * noopPollStep
	if progress >= 100 {
		return &adapter.ProviderJob{
			ID:        providerJobID,
			Status:    model.GenerationCompleted,
			Progress:  100,
			ResultURL: fmt.Sprintf("https://demo.local/%s/%s.mp4", j.kind, providerJobID),
		}, nil
	}
	status := model.GenerationGenerating
	if j.polls == 1 {
		status = model.GenerationQueued
	}
	return &adapter.ProviderJob{ID: providerJobID, Status: status, Progress: progress}, nil
}

func (p *NoopProvider) DeleteJob(ctx context.Context, providerJobID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.jobs, providerJobID)
	return nil
}
