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

type RoomService interface {
	// Create 建立房間，建立者同時成為房間的主辦人
	Create(ctx context.Context, caller *model.User, name string, description *string) (*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	GetByRoomID(ctx context.Context, roomID uuid.UUID) (*model.Room, error)
	Update(ctx context.Context, callerUserID int, roomID uuid.UUID, params model.UpdateRoomParams) (*model.Room, error)
	Delete(ctx context.Context, callerUserID int, roomID uuid.UUID) error
}

type RoomServiceImpl struct {
	pool            *pgxpool.Pool
	repo            repository.RoomRepository
	participantRepo repository.ParticipantRepository
	guard           AccessGuard
}

func NewRoomService(pool *pgxpool.Pool, repo repository.RoomRepository, participantRepo repository.ParticipantRepository, guard AccessGuard) RoomService {
	return &RoomServiceImpl{pool: pool, repo: repo, participantRepo: participantRepo, guard: guard}
}

func (s *RoomServiceImpl) Create(ctx context.Context, caller *model.User, name string, description *string) (*model.Room, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	room := &model.Room{
		RoomID:      uuid.New(),
		Name:        name,
		Description: description,
	}

	room, err = s.repo.Create(ctx, tx, room)
	if err != nil {
		return nil, err
	}

	// 建立者自動成為主辦人
	organizer := &model.Participant{
		ParticipantID: uuid.New(),
		RoomID:        room.ID,
		UserID:        caller.ID,
		Name:          caller.Name,
		Role:          model.RoleOrganizer,
	}
	if _, err := s.participantRepo.Create(ctx, tx, organizer); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return room, nil
}

func (s *RoomServiceImpl) List(ctx context.Context) ([]*model.Room, error) {
	return s.repo.List(ctx)
}

func (s *RoomServiceImpl) GetByRoomID(ctx context.Context, roomID uuid.UUID) (*model.Room, error) {
	return s.repo.FindByRoomID(ctx, roomID)
}

func (s *RoomServiceImpl) Update(ctx context.Context, callerUserID int, roomID uuid.UUID, params model.UpdateRoomParams) (*model.Room, error) {
	room, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ok, err := s.guard.IsOrganizer(ctx, callerUserID, room.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	return s.repo.Update(ctx, room.ID, params)
}

func (s *RoomServiceImpl) Delete(ctx context.Context, callerUserID int, roomID uuid.UUID) error {
	room, err := s.repo.FindByRoomID(ctx, roomID)
	if err != nil {
		return err
	}

	ok, err := s.guard.IsOrganizer(ctx, callerUserID, room.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}

	return s.repo.Delete(ctx, room.ID)
}
