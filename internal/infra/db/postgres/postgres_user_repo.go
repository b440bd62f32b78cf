package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, display_name, timezone, registered_at, last_active_at,
  reminders_enabled, telegram_chat_id
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
) ON CONFLICT (id) DO UPDATE SET
  email=$2, display_name=$3, timezone=$4, last_active_at=$6,
  reminders_enabled=$7, telegram_chat_id=$8;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Email, u.DisplayName, u.Timezone, u.RegisteredAt, u.LastActiveAt,
		u.RemindersEnabled, u.TelegramChatID)
	return translateErr(err)
}

func (r *PostgresUserRepo) SaveCredentials(ctx context.Context, tx repository.Tx, userID string, passwordHash []byte) error {
	const q = `
INSERT INTO user_credentials (user_id, password_hash)
VALUES ($1,$2)
ON CONFLICT (user_id) DO UPDATE SET password_hash=$2;
`
	_, err := execSQL(ctx, r.pool, tx, q, userID, passwordHash)
	return translateErr(err)
}

const userColumns = `id, email, display_name, timezone, registered_at, last_active_at, reminders_enabled, telegram_chat_id`

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE email=$1;`, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) CredentialsByEmail(ctx context.Context, tx repository.Tx, email string) (*repository.Credentials, error) {
	const q = `
SELECT c.user_id, c.password_hash
  FROM user_credentials c
  JOIN users u ON u.id = c.user_id
 WHERE u.email=$1;
`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	var c repository.Credentials
	if err := row.Scan(&c.UserID, &c.PasswordHash); err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *PostgresUserRepo) ListReminderRecipients(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	const q = `
SELECT ` + userColumns + `
  FROM users
 WHERE reminders_enabled
 ORDER BY last_active_at DESC
 LIMIT $1;
`
	rows, err := querySQL(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Timezone, &u.RegisteredAt, &u.LastActiveAt,
		&u.RemindersEnabled, &u.TelegramChatID)
	if err != nil {
		return nil, translateErr(err)
	}
	return &u, nil
}
