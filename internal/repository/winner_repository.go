package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WinnerRepository interface {
	ListByRoomID(ctx context.Context, roomID int) ([]*model.Winner, error)
	FindByWinnerID(ctx context.Context, winnerID uuid.UUID) (*model.Winner, error)
	FindActiveByParticipantAndPrize(ctx context.Context, participantID, prizeID int) (*model.Winner, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, winner *model.Winner) (*model.Winner, error)
	Revoke(ctx context.Context, tx pgx.Tx, id int) error
}

type WinnerRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewWinnerRepository(pool *pgxpool.Pool) WinnerRepository {
	return &WinnerRepositoryImpl{
		pool: pool,
	}
}

func (r *WinnerRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, winner *model.Winner) (*model.Winner, error) {
	query := `
		INSERT INTO winners (winner_id, room_id, participant_id, prize_id, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, winner_id, room_id, participant_id, prize_id, metadata, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		winner.WinnerID, winner.RoomID, winner.ParticipantID, winner.PrizeID, winner.Metadata,
	).Scan(
		&winner.ID,
		&winner.WinnerID,
		&winner.RoomID,
		&winner.ParticipantID,
		&winner.PrizeID,
		&winner.Metadata,
		&winner.CreatedAt,
		&winner.UpdatedAt,
	)

	if err != nil {
		// 同一對 (participant, prize) 併發寫入時，部分唯一索引擋下後到的那筆
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrDuplicateAward
		}
		return nil, fmt.Errorf("failed to create winner: %w", err)
	}

	return winner, nil
}

func (r *WinnerRepositoryImpl) ListByRoomID(ctx context.Context, roomID int) ([]*model.Winner, error) {
	query := `
		SELECT w.id, w.winner_id, w.room_id, w.participant_id, w.prize_id, w.metadata,
		       w.created_at, w.updated_at, w.revoked_at,
		       pa.participant_id, pa.name, pr.prize_id, pr.name
		FROM winners w
		JOIN participants pa ON pa.id = w.participant_id
		JOIN prizes pr ON pr.id = w.prize_id
		WHERE w.room_id = $1 AND w.revoked_at IS NULL
		ORDER BY w.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	winners := make([]*model.Winner, 0)

	for rows.Next() {
		var winner model.Winner
		var participant model.Participant
		var prize model.Prize
		err := rows.Scan(
			&winner.ID,
			&winner.WinnerID,
			&winner.RoomID,
			&winner.ParticipantID,
			&winner.PrizeID,
			&winner.Metadata,
			&winner.CreatedAt,
			&winner.UpdatedAt,
			&winner.RevokedAt,
			&participant.ParticipantID,
			&participant.Name,
			&prize.PrizeID,
			&prize.Name,
		)
		if err != nil {
			return nil, err
		}
		winner.Participant = &participant
		winner.Prize = &prize
		winners = append(winners, &winner)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return winners, nil
}

func (r *WinnerRepositoryImpl) FindByWinnerID(ctx context.Context, winnerID uuid.UUID) (*model.Winner, error) {
	query := `
		SELECT w.id, w.winner_id, w.room_id, w.participant_id, w.prize_id, w.metadata,
		       w.created_at, w.updated_at, w.revoked_at,
		       pa.participant_id, pa.name, pr.prize_id, pr.name
		FROM winners w
		JOIN participants pa ON pa.id = w.participant_id
		JOIN prizes pr ON pr.id = w.prize_id
		WHERE w.winner_id = $1
	`

	var winner model.Winner
	var participant model.Participant
	var prize model.Prize
	err := r.pool.QueryRow(ctx, query, winnerID).Scan(
		&winner.ID,
		&winner.WinnerID,
		&winner.RoomID,
		&winner.ParticipantID,
		&winner.PrizeID,
		&winner.Metadata,
		&winner.CreatedAt,
		&winner.UpdatedAt,
		&winner.RevokedAt,
		&participant.ParticipantID,
		&participant.Name,
		&prize.PrizeID,
		&prize.Name,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrWinnerNotFound
		}
		return nil, err
	}

	winner.Participant = &participant
	winner.Prize = &prize
	return &winner, nil
}

func (r *WinnerRepositoryImpl) FindActiveByParticipantAndPrize(ctx context.Context, participantID, prizeID int) (*model.Winner, error) {
	query := `
		SELECT id, winner_id, room_id, participant_id, prize_id, metadata,
		       created_at, updated_at, revoked_at
		FROM winners
		WHERE participant_id = $1 AND prize_id = $2 AND revoked_at IS NULL
	`

	var winner model.Winner
	err := r.pool.QueryRow(ctx, query, participantID, prizeID).Scan(
		&winner.ID,
		&winner.WinnerID,
		&winner.RoomID,
		&winner.ParticipantID,
		&winner.PrizeID,
		&winner.Metadata,
		&winner.CreatedAt,
		&winner.UpdatedAt,
		&winner.RevokedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrWinnerNotFound
		}
		return nil, err
	}

	return &winner, nil
}

// Revoke 軟刪除得獎紀錄；已撤銷的紀錄不會再次命中，保證名額不被重複歸還
func (r *WinnerRepositoryImpl) Revoke(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		UPDATE winners
		SET revoked_at = $1, updated_at = $1
		WHERE id = $2 AND revoked_at IS NULL
	`

	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyRevoked
	}

	return nil
}
