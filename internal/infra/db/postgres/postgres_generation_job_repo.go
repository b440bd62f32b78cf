package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
)

var _ repository.GenerationJobRepository = (*generationJobRepo)(nil)

type generationJobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewGenerationJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *generationJobRepo {
	return &generationJobRepo{pool: pool, tm: tm}
}

const jobColumns = `id, user_id, mentor_id, kind, provider_job_id, status, progress, result_url, error_message, created_at, updated_at`

func (r *generationJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	job.UpdatedAt = time.Now()
	const q = `
INSERT INTO generation_jobs (` + jobColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  progress = EXCLUDED.progress,
  result_url = EXCLUDED.result_url,
  error_message = EXCLUDED.error_message,
  updated_at = EXCLUDED.updated_at;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.UserID, job.MentorID, string(job.Kind), job.ProviderJobID,
		string(job.Status), job.Progress, job.ResultURL, job.ErrorMessage,
		job.CreatedAt, job.UpdatedAt)
	return translateErr(err)
}

func (r *generationJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+jobColumns+` FROM generation_jobs WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanJob(row)
}

func (r *generationJobRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.GenerationJob, error) {
	const q = `
SELECT ` + jobColumns + `
  FROM generation_jobs
 WHERE user_id=$1
 ORDER BY created_at DESC
 LIMIT $2;
`
	rows, err := querySQL(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.GenerationJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// ClaimQueued fetches the oldest queued job and flips it to generating inside
// one transaction. SKIP LOCKED keeps concurrent workers off each other's rows.
func (r *generationJobRepo) ClaimQueued(ctx context.Context) (*model.GenerationJob, error) {
	var job *model.GenerationJob

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const fetchQuery = `
SELECT ` + jobColumns + `
  FROM generation_jobs
 WHERE status = 'queued'
 ORDER BY created_at
 LIMIT 1
 FOR UPDATE SKIP LOCKED;
`
		row, err := pickRow(ctx, r.pool, tx, fetchQuery)
		if err != nil {
			return err
		}
		fetched, err := scanJob(row)
		if err != nil {
			return err
		}

		if err := fetched.Advance(model.GenerationGenerating, fetched.Progress); err != nil {
			return err
		}
		if err := r.Save(ctx, tx, fetched); err != nil {
			return err
		}
		job = fetched
		return nil
	})

	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return job, err
}

func scanJob(row rowScanner) (*model.GenerationJob, error) {
	var j model.GenerationJob
	var kind, status string
	err := row.Scan(&j.ID, &j.UserID, &j.MentorID, &kind, &j.ProviderJobID,
		&status, &j.Progress, &j.ResultURL, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	j.Kind = model.GenerationKind(kind)
	j.Status = model.GenerationStatus(status)
	return &j, nil
}
