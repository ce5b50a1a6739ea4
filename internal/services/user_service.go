package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/adanyl0v/taskflow/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewUserService(
	logger zerolog.Logger,
	pgPool Pool,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user id")
		return nil, oops.Code("USER_ID_GENERATION_FAILED").Wrap(err)
	}

	now := time.Now()
	user := &models.User{
		ID:        id.String(),
		Name:      params.Name,
		Username:  params.Username,
		Email:     params.Email,
		Password:  params.PasswordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   username,
                   email,
                   password,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("username", user.Username).
				Str("constraint", pgErr.ConstraintName).
				Msg("user already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("username", user.Username).
			Msg("failed to insert user")
		return nil, oops.Code("USER_CREATE_FAILED").With("username", user.Username).Wrap(err)
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("created user")
	return user, nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id, name, username, email, password, created_at, updated_at
FROM users
WHERE id = $1
`
	return s.getUser(ctx, "id", id, selectUserByIDQuery)
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id, name, username, email, password, created_at, updated_at
FROM users
WHERE email = $1
`
	return s.getUser(ctx, "email", email, selectUserByEmailQuery)
}

func (s *userServiceImpl) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = `
SELECT id, name, username, email, password, created_at, updated_at
FROM users
WHERE username = $1
`
	return s.getUser(ctx, "username", username, selectUserByUsernameQuery)
}

func (s *userServiceImpl) getUser(ctx context.Context, key, value, query string) (*models.User, error) {
	var user models.User
	err := s.pgPool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str(key, value).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str(key, value).
			Msg("failed to select user")
		return nil, oops.Code("USER_SELECT_FAILED").With(key, value).Wrap(err)
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msgf("selected user by %s", key)
	return &user, nil
}

func (s *userServiceImpl) UserExists(ctx context.Context, email, username string) (bool, error) {
	const selectUserExistsQuery = `
SELECT EXISTS (SELECT 1
               FROM users
               WHERE email = $1 OR username = $2)
`
	var exists bool
	err := s.pgPool.QueryRow(ctx, selectUserExistsQuery, email, username).Scan(&exists)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to check user existence")
		return false, oops.Code("USER_EXISTS_FAILED").With("username", username).Wrap(err)
	}
	return exists, nil
}

func (s *userServiceImpl) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	const updateUserPasswordQuery = `
UPDATE users
SET password = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(ctx, updateUserPasswordQuery, passwordHash, time.Now(), id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("failed to update user password")
		return oops.Code("USER_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("user_id", id).
			Msg("user not found")
		return ErrUserNotFound
	}

	s.logger.Info().
		Str("user_id", id).
		Msg("updated user password")
	return nil
}
