package service

import (
	"context"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/repository"
	apperrors "go-gin-prize-draw/pkg/app_errors"
	"go-gin-prize-draw/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PrizeService interface {
	Create(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.CreatePrizeRequest) (*model.Prize, error)
	ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Prize, error)
	GetByPrizeID(ctx context.Context, roomID, prizeID uuid.UUID) (*model.Prize, error)
	// Update 名稱/描述直接覆寫；總量變動會保留已發出數重算剩餘數量
	Update(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID, req model.UpdatePrizeRequest) (*model.Prize, error)
	Delete(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID) error
}

type PrizeServiceImpl struct {
	repo       repository.PrizeRepository
	roomRepo   repository.RoomRepository
	guard      AccessGuard
	eventQueue queue.EventQueue
}

func NewPrizeService(repo repository.PrizeRepository, roomRepo repository.RoomRepository, guard AccessGuard, eventQueue queue.EventQueue) PrizeService {
	return &PrizeServiceImpl{repo: repo, roomRepo: roomRepo, guard: guard, eventQueue: eventQueue}
}

func (s *PrizeServiceImpl) Create(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.CreatePrizeRequest) (*model.Prize, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOrganizer(ctx, callerUserID, room.ID); err != nil {
		return nil, err
	}

	prize := &model.Prize{
		PrizeID:           uuid.New(),
		RoomID:            room.ID,
		Name:              req.Name,
		Description:       req.Description,
		Quantity:          req.Quantity,
		QuantityRemaining: req.Quantity,
	}

	return s.repo.Create(ctx, prize)
}

func (s *PrizeServiceImpl) ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Prize, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRoomID(ctx, room.ID)
}

func (s *PrizeServiceImpl) GetByPrizeID(ctx context.Context, roomID, prizeID uuid.UUID) (*model.Prize, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	prize, err := s.repo.FindByPrizeID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if prize.RoomID != room.ID {
		return nil, apperrors.ErrPrizeNotFound
	}
	return prize, nil
}

func (s *PrizeServiceImpl) Update(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID, req model.UpdatePrizeRequest) (*model.Prize, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOrganizer(ctx, callerUserID, room.ID); err != nil {
		return nil, err
	}

	prize, err := s.repo.FindByPrizeID(ctx, prizeID)
	if err != nil {
		return nil, err
	}
	if prize.RoomID != room.ID {
		return nil, apperrors.ErrPrizeNotFound
	}

	if req.Name != nil || req.Description != nil {
		prize, err = s.repo.Update(ctx, prize.ID, model.UpdatePrizeParams{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil {
		prize, err = s.repo.AdjustCapacity(ctx, prize.ID, *req.Quantity)
		if err != nil {
			return nil, err
		}
	}

	s.publishPrizeUpdated(room, prize)

	return prize, nil
}

func (s *PrizeServiceImpl) Delete(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID) error {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.requireOrganizer(ctx, callerUserID, room.ID); err != nil {
		return err
	}

	prize, err := s.repo.FindByPrizeID(ctx, prizeID)
	if err != nil {
		return err
	}
	if prize.RoomID != room.ID {
		return apperrors.ErrPrizeNotFound
	}

	return s.repo.Delete(ctx, prize.ID)
}

func (s *PrizeServiceImpl) requireOrganizer(ctx context.Context, callerUserID, roomID int) error {
	ok, err := s.guard.IsOrganizer(ctx, callerUserID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *PrizeServiceImpl) publishPrizeUpdated(room *model.Room, prize *model.Prize) {
	evt, err := realtime.NewPrizeUpdated(room.ID, room.RoomID, prize)
	if err == nil {
		err = s.eventQueue.PublishEvent(context.Background(), evt)
	}
	if err != nil {
		logger.WithComponent("prize-service").Warn("publish prize:updated failed",
			zap.String("room_id", room.RoomID.String()),
			zap.String("prize_id", prize.PrizeID.String()),
			zap.Error(err))
	}
}
