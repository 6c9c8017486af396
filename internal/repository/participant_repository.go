package repository

import (
	"context"
	"errors"
	"time"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository interface {
	ListByRoomID(ctx context.Context, roomID int) ([]*model.Participant, error)
	FindByParticipantID(ctx context.Context, participantID uuid.UUID) (*model.Participant, error)
	FindActiveByRoomAndUser(ctx context.Context, roomID, userID int) (*model.Participant, error)
	IsOrganizer(ctx context.Context, userID, roomID int) (bool, error)
	IsParticipant(ctx context.Context, userID, roomID int) (bool, error)
	Delete(ctx context.Context, id int) error

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, participant *model.Participant) (*model.Participant, error)
}

type ParticipantRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) ParticipantRepository {
	return &ParticipantRepositoryImpl{
		pool: pool,
	}
}

func (r *ParticipantRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, participant *model.Participant) (*model.Participant, error) {
	query := `
		INSERT INTO participants (participant_id, room_id, user_id, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, participant_id, room_id, user_id, name, role, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		participant.ParticipantID, participant.RoomID, participant.UserID,
		participant.Name, participant.Role,
	).Scan(
		&participant.ID,
		&participant.ParticipantID,
		&participant.RoomID,
		&participant.UserID,
		&participant.Name,
		&participant.Role,
		&participant.CreatedAt,
		&participant.UpdatedAt,
	)

	if err != nil {
		// 唯一索引擋下同一使用者重複加入
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrAlreadyJoined
		}
		return nil, err
	}

	return participant, nil
}

func (r *ParticipantRepositoryImpl) ListByRoomID(ctx context.Context, roomID int) ([]*model.Participant, error) {
	query := `
		SELECT id, participant_id, room_id, user_id, name, role, created_at, updated_at, deleted_at
		FROM participants
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*model.Participant, 0)
	for rows.Next() {
		var p model.Participant
		err := rows.Scan(
			&p.ID,
			&p.ParticipantID,
			&p.RoomID,
			&p.UserID,
			&p.Name,
			&p.Role,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *ParticipantRepositoryImpl) FindByParticipantID(ctx context.Context, participantID uuid.UUID) (*model.Participant, error) {
	query := `
		SELECT id, participant_id, room_id, user_id, name, role, created_at, updated_at, deleted_at
		FROM participants
		WHERE participant_id = $1 AND deleted_at IS NULL
	`

	var p model.Participant
	err := r.pool.QueryRow(ctx, query, participantID).Scan(
		&p.ID,
		&p.ParticipantID,
		&p.RoomID,
		&p.UserID,
		&p.Name,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrParticipantNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *ParticipantRepositoryImpl) FindActiveByRoomAndUser(ctx context.Context, roomID, userID int) (*model.Participant, error) {
	query := `
		SELECT id, participant_id, room_id, user_id, name, role, created_at, updated_at, deleted_at
		FROM participants
		WHERE room_id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var p model.Participant
	err := r.pool.QueryRow(ctx, query, roomID, userID).Scan(
		&p.ID,
		&p.ParticipantID,
		&p.RoomID,
		&p.UserID,
		&p.Name,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrParticipantNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *ParticipantRepositoryImpl) IsOrganizer(ctx context.Context, userID, roomID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM participants
			WHERE room_id = $1 AND user_id = $2 AND role = $3 AND deleted_at IS NULL
		)
	`

	var ok bool
	err := r.pool.QueryRow(ctx, query, roomID, userID, model.RoleOrganizer).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ParticipantRepositoryImpl) IsParticipant(ctx context.Context, userID, roomID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM participants
			WHERE room_id = $1 AND user_id = $2 AND deleted_at IS NULL
		)
	`

	var ok bool
	err := r.pool.QueryRow(ctx, query, roomID, userID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ParticipantRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		UPDATE participants
		SET deleted_at = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, now, now, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrParticipantNotFound
	}

	return nil
}
