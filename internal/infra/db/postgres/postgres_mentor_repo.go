package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
)

var _ repository.MentorRepository = (*PostgresMentorRepo)(nil)

type PostgresMentorRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMentorRepo(pool *pgxpool.Pool) *PostgresMentorRepo {
	return &PostgresMentorRepo{pool: pool}
}

const mentorColumns = `id, name, category, personality, avatar_id, voice_id, builtin, owner_id, created_at`

func (r *PostgresMentorRepo) Save(ctx context.Context, tx repository.Tx, m *model.Mentor) error {
	const q = `
INSERT INTO mentors (` + mentorColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),$9)
ON CONFLICT (id) DO UPDATE SET
  name=$2, category=$3, personality=$4, avatar_id=$5, voice_id=$6;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		m.ID, m.Name, m.Category, m.Personality, m.AvatarID, m.VoiceID, m.Builtin, m.OwnerID, m.CreatedAt)
	return translateErr(err)
}

func (r *PostgresMentorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Mentor, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+mentorColumns+` FROM mentors WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanMentor(row)
}

func (r *PostgresMentorRepo) ListAvailable(ctx context.Context, tx repository.Tx, userID string) ([]*model.Mentor, error) {
	const q = `
SELECT ` + mentorColumns + `
  FROM mentors
 WHERE builtin OR owner_id=$1
 ORDER BY builtin DESC, created_at;
`
	rows, err := querySQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Mentor
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMentorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM mentors WHERE id=$1 AND NOT builtin;`, id)
	return translateErr(err)
}

func scanMentor(row rowScanner) (*model.Mentor, error) {
	var m model.Mentor
	var owner *string
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Personality, &m.AvatarID, &m.VoiceID, &m.Builtin, &owner, &m.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if owner != nil {
		m.OwnerID = *owner
	}
	return &m, nil
}
