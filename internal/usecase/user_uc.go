package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes account operations used by the web layer.
type UserUseCase interface {
	Register(ctx context.Context, email, password, displayName, timezone string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	UpdateSettings(ctx context.Context, userID string, remindersEnabled bool, timezone string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, tm: tm, log: logger}
}

func (u *userUC) Register(ctx context.Context, email, password, displayName, timezone string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	if len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := model.NewUser(uuid.NewString(), strings.ToLower(email), displayName, timezone)
	if err != nil {
		return nil, err
	}

	// User row and credentials row land together or not at all.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if existing, err := u.users.FindByEmail(ctx, tx, user.Email); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyExists
		}
		if err := u.users.Save(ctx, tx, user); err != nil {
			return err
		}
		return u.users.SaveCredentials(ctx, tx, user.ID, hash)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Authenticate")()

	email = strings.ToLower(email)
	creds, err := u.users.CredentialsByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := u.users.FindByID(ctx, repository.NoTX, creds.UserID)
	if err != nil {
		return nil, err
	}
	user.Touch()
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		u.log.Warn().Err(err).Str("user_id", user.ID).Msg("update last active")
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, userID string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, userID)
}

func (u *userUC) UpdateSettings(ctx context.Context, userID string, remindersEnabled bool, timezone string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.UpdateSettings")()

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, domain.ErrInvalidArgument
		}
		user.Timezone = timezone
	}
	user.RemindersEnabled = remindersEnabled
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.CountUsers(ctx, repository.NoTX)
}
