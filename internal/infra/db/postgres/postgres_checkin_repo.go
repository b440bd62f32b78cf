package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
)

var _ repository.CheckinRepository = (*PostgresCheckinRepo)(nil)

// PostgresCheckinRepo stores immutable check-in rows. Goals are a jsonb
// column since this layer never queries inside them; the insights package
// works on the decoded slice.
type PostgresCheckinRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCheckinRepo(pool *pgxpool.Pool) *PostgresCheckinRepo {
	return &PostgresCheckinRepo{pool: pool}
}

const checkinColumns = `id, user_id, mentor_id, mood_score, goals, reflection, mentor_reply, created_at`

func (r *PostgresCheckinRepo) Save(ctx context.Context, tx repository.Tx, c *model.CheckinRecord) error {
	goals, err := json.Marshal(c.Goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}
	const q = `
INSERT INTO checkins (` + checkinColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET mentor_reply=$7;
`
	_, err = execSQL(ctx, r.pool, tx, q,
		c.ID, c.UserID, c.MentorID, c.MoodScore, goals, c.Reflection, c.MentorReply, c.CreatedAt)
	return translateErr(err)
}

func (r *PostgresCheckinRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CheckinRecord, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+checkinColumns+` FROM checkins WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanCheckin(row)
}

func (r *PostgresCheckinRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.CheckinRecord, error) {
	const q = `
SELECT ` + checkinColumns + `
  FROM checkins
 WHERE user_id=$1
 ORDER BY created_at
 LIMIT $2;
`
	return r.list(ctx, tx, q, userID, limit)
}

func (r *PostgresCheckinRepo) ListByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) ([]*model.CheckinRecord, error) {
	const q = `
SELECT ` + checkinColumns + `
  FROM checkins
 WHERE user_id=$1 AND created_at >= $2
 ORDER BY created_at;
`
	return r.list(ctx, tx, q, userID, since)
}

func (r *PostgresCheckinRepo) CountByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM checkins WHERE user_id=$1 AND created_at >= $2;`, userID, since)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count checkins: %w", err)
	}
	return n, nil
}

func (r *PostgresCheckinRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.CheckinRecord, error) {
	rows, err := querySQL(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CheckinRecord
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCheckin(row rowScanner) (*model.CheckinRecord, error) {
	var c model.CheckinRecord
	var goals []byte
	err := row.Scan(&c.ID, &c.UserID, &c.MentorID, &c.MoodScore, &goals, &c.Reflection, &c.MentorReply, &c.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	if len(goals) > 0 {
		if err := json.Unmarshal(goals, &c.Goals); err != nil {
			return nil, fmt.Errorf("unmarshal goals: %w", err)
		}
	}
	return &c, nil
}
