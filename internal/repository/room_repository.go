package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	List(ctx context.Context) ([]*model.Room, error)
	FindByID(ctx context.Context, id int) (*model.Room, error)
	FindByRoomID(ctx context.Context, roomID uuid.UUID) (*model.Room, error)
	Update(ctx context.Context, id int, params model.UpdateRoomParams) (*model.Room, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, room *model.Room) (*model.Room, error)
}

type RoomRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &RoomRepositoryImpl{
		pool: pool,
	}
}

func (r *RoomRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, room *model.Room) (*model.Room, error) {
	query := `
		INSERT INTO rooms (room_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, room_id, name, description, created_at, updated_at
	`
	err := tx.QueryRow(ctx, query,
		room.RoomID, room.Name, room.Description,
	).Scan(
		&room.ID,
		&room.RoomID,
		&room.Name,
		&room.Description,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *RoomRepositoryImpl) List(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, room_id, name, description, created_at, updated_at
		FROM rooms
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*model.Room, 0)
	for rows.Next() {
		var room model.Room
		err := rows.Scan(
			&room.ID,
			&room.RoomID,
			&room.Name,
			&room.Description,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, nil
}

func (r *RoomRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Room, error) {
	query := `
		SELECT id, room_id, name, description, created_at, updated_at
		FROM rooms
		WHERE id = $1 AND deleted_at IS NULL
	`

	var room model.Room
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.RoomID,
		&room.Name,
		&room.Description,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepositoryImpl) FindByRoomID(ctx context.Context, roomID uuid.UUID) (*model.Room, error) {
	query := `
		SELECT id, room_id, name, description, created_at, updated_at
		FROM rooms
		WHERE room_id = $1 AND deleted_at IS NULL
	`

	var room model.Room
	err := r.pool.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.RoomID,
		&room.Name,
		&room.Description,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateRoomParams) (*model.Room, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}

	if params.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *params.Description)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE rooms
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING id, room_id, name, description, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var room model.Room
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&room.ID,
		&room.RoomID,
		&room.Name,
		&room.Description,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		UPDATE rooms
		SET deleted_at = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, now, now, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRoomNotFound
	}

	return nil
}
