package repository

import (
	"context"

	"ai-mentor-platform/internal/domain/model"
)

// -----------------------------
// Generation jobs
// -----------------------------

type GenerationJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.GenerationJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.GenerationJob, error)
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.GenerationJob, error)
	// ClaimQueued atomically fetches one queued job and marks it generating
	// so concurrent workers never watch the same job twice. Returns
	// domain.ErrNotFound when no job is waiting.
	ClaimQueued(ctx context.Context) (*model.GenerationJob, error)
}
