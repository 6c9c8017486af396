package service

import (
	"context"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/repository"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantService interface {
	Join(ctx context.Context, caller *model.User, roomID uuid.UUID, req model.JoinRoomRequest) (*model.Participant, error)
	ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Participant, error)
	// Remove 主辦人可移除任何參加者；一般參加者只能移除自己（離開房間）
	Remove(ctx context.Context, callerUserID int, roomID, participantID uuid.UUID) error
}

type ParticipantServiceImpl struct {
	pool     *pgxpool.Pool
	repo     repository.ParticipantRepository
	roomRepo repository.RoomRepository
	guard    AccessGuard
}

func NewParticipantService(pool *pgxpool.Pool, repo repository.ParticipantRepository, roomRepo repository.RoomRepository, guard AccessGuard) ParticipantService {
	return &ParticipantServiceImpl{pool: pool, repo: repo, roomRepo: roomRepo, guard: guard}
}

func (s *ParticipantServiceImpl) Join(ctx context.Context, caller *model.User, roomID uuid.UUID, req model.JoinRoomRequest) (*model.Participant, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	participant := &model.Participant{
		ParticipantID: uuid.New(),
		RoomID:        room.ID,
		UserID:        caller.ID,
		Name:          req.Name,
		Role:          model.RolePlayer,
	}

	participant, err = s.repo.Create(ctx, tx, participant)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return participant, nil
}

func (s *ParticipantServiceImpl) ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Participant, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRoomID(ctx, room.ID)
}

func (s *ParticipantServiceImpl) Remove(ctx context.Context, callerUserID int, roomID, participantID uuid.UUID) error {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return err
	}

	participant, err := s.repo.FindByParticipantID(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.RoomID != room.ID {
		return apperrors.ErrParticipantNotFound
	}

	if participant.UserID != callerUserID {
		ok, err := s.guard.IsOrganizer(ctx, callerUserID, room.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrForbidden
		}
	}

	return s.repo.Delete(ctx, participant.ID)
}
