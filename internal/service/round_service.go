package service

import (
	"context"
	"time"

	"go-gin-prize-draw/internal/cache"
	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/repository"
	apperrors "go-gin-prize-draw/pkg/app_errors"
	"go-gin-prize-draw/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 回合沒被主動結算時，Redis key 最晚這個時間後自動清掉
const defaultRoundTTL = 10 * time.Minute

type RoundService interface {
	// Open 開啟一個互動回合；回合狀態只存在 Redis，結算或逾時即清除
	Open(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.OpenRoundRequest) (*model.Round, error)
	Get(ctx context.Context, roomID uuid.UUID, roundID string) (*model.Round, error)
	SubmitEntry(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string, req model.SubmitEntryRequest) error
	Close(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string) (*model.RoundResult, error)
}

type RoundServiceImpl struct {
	rounds          cache.RoundStateManager
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	guard           AccessGuard
	eventQueue      queue.EventQueue
}

func NewRoundService(
	rounds cache.RoundStateManager,
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	guard AccessGuard,
	eventQueue queue.EventQueue,
) RoundService {
	return &RoundServiceImpl{
		rounds:          rounds,
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		guard:           guard,
		eventQueue:      eventQueue,
	}
}

func (s *RoundServiceImpl) Open(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.OpenRoundRequest) (*model.Round, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOrganizer(ctx, callerUserID, room.ID); err != nil {
		return nil, err
	}

	ttl := defaultRoundTTL
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	round := &model.Round{
		RoundID:  uuid.New().String(),
		RoomID:   room.ID,
		Question: req.Question,
		Status:   model.RoundStatusOpen,
		OpenedAt: time.Now().UTC(),
	}

	if err := s.rounds.OpenRound(ctx, room.ID, round, ttl); err != nil {
		return nil, err
	}

	s.publishRoundEvent(room, realtime.EventRoundOpened, func() (*realtime.Envelope, error) {
		return realtime.NewRoundOpened(room.ID, room.RoomID, round)
	})

	return round, nil
}

func (s *RoundServiceImpl) Get(ctx context.Context, roomID uuid.UUID, roundID string) (*model.Round, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.rounds.GetRound(ctx, room.ID, roundID)
}

func (s *RoundServiceImpl) SubmitEntry(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string, req model.SubmitEntryRequest) error {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return err
	}

	// 只有房間參加者可以作答
	participant, err := s.participantRepo.FindActiveByRoomAndUser(ctx, room.ID, callerUserID)
	if err != nil {
		if err == apperrors.ErrParticipantNotFound {
			return apperrors.ErrForbidden
		}
		return err
	}

	return s.rounds.SubmitEntry(ctx, room.ID, roundID, participant.ParticipantID.String(), req.Answer)
}

func (s *RoundServiceImpl) Close(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string) (*model.RoundResult, error) {
	room, err := s.roomRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOrganizer(ctx, callerUserID, room.ID); err != nil {
		return nil, err
	}

	entries, err := s.rounds.CloseRound(ctx, room.ID, roundID)
	if err != nil {
		return nil, err
	}

	result := &model.RoundResult{
		RoundID: roundID,
		Entries: entries,
	}

	s.publishRoundEvent(room, realtime.EventRoundClosed, func() (*realtime.Envelope, error) {
		return realtime.NewRoundClosed(room.ID, room.RoomID, result)
	})

	return result, nil
}

func (s *RoundServiceImpl) requireOrganizer(ctx context.Context, callerUserID, roomID int) error {
	ok, err := s.guard.IsOrganizer(ctx, callerUserID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *RoundServiceImpl) publishRoundEvent(room *model.Room, kind realtime.EventKind, build func() (*realtime.Envelope, error)) {
	evt, err := build()
	if err == nil {
		err = s.eventQueue.PublishEvent(context.Background(), evt)
	}
	if err != nil {
		logger.WithComponent("round-service").Warn("publish round event failed",
			zap.String("room_id", room.RoomID.String()),
			zap.String("event", string(kind)),
			zap.Error(err))
	}
}
