package repository

import (
	"context"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByAPIToken(ctx context.Context, token string) (*model.User, error)
}

type UserRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &UserRepositoryImpl{
		pool: pool,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (user_id, name, email, api_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, email, api_token, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.UserID, user.Name, user.Email, user.APIToken,
	).Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.APIToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `
		SELECT id, user_id, name, email, api_token, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.APIToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByAPIToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT id, user_id, name, email, api_token, created_at, updated_at
		FROM users
		WHERE api_token = $1 AND deleted_at IS NULL
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&user.ID,
		&user.UserID,
		&user.Name,
		&user.Email,
		&user.APIToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
