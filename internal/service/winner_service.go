package service

import (
	"context"
	"errors"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/repository"
	apperrors "go-gin-prize-draw/pkg/app_errors"
	"go-gin-prize-draw/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AccessGuard 主辦人才能執行指定/撤銷得獎者等操作
type AccessGuard interface {
	IsOrganizer(ctx context.Context, userID, roomID int) (bool, error)
}

type WinnerService interface {
	// 指定得獎者：扣名額與寫入得獎紀錄在同一個交易內完成
	SelectWinner(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.SelectWinnerRequest) (*model.Winner, error)
	ListWinners(ctx context.Context, roomID uuid.UUID) ([]*model.Winner, error)
	// 撤銷得獎：軟刪除與歸還名額在同一個交易內完成
	RevokeWinner(ctx context.Context, callerUserID int, roomID, winnerID uuid.UUID) error
}

type WinnerServiceImpl struct {
	pool            *pgxpool.Pool
	repository      repository.WinnerRepository
	roomRepository  repository.RoomRepository
	participantRepo repository.ParticipantRepository
	prizeRepository repository.PrizeRepository
	guard           AccessGuard
	eventQueue      queue.EventQueue
}

func NewWinnerService(
	pool *pgxpool.Pool,
	winnerRepository repository.WinnerRepository,
	roomRepository repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	prizeRepository repository.PrizeRepository,
	guard AccessGuard,
	eventQueue queue.EventQueue,
) WinnerService {
	return &WinnerServiceImpl{
		pool:            pool,
		repository:      winnerRepository,
		roomRepository:  roomRepository,
		participantRepo: participantRepo,
		prizeRepository: prizeRepository,
		guard:           guard,
		eventQueue:      eventQueue,
	}
}

func (s *WinnerServiceImpl) SelectWinner(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.SelectWinnerRequest) (*model.Winner, error) {
	// 1. 房間存在
	room, err := s.roomRepository.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// 2. 主辦人權限
	ok, err := s.guard.IsOrganizer(ctx, callerUserID, room.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	// 3. 參加者與獎項都屬於這個房間
	participant, err := s.participantRepo.FindByParticipantID(ctx, req.ParticipantID)
	if err != nil {
		return nil, err
	}
	if participant.RoomID != room.ID {
		return nil, apperrors.ErrParticipantNotFound
	}

	prize, err := s.prizeRepository.FindByPrizeID(ctx, req.PrizeID)
	if err != nil {
		return nil, err
	}
	if prize.RoomID != room.ID {
		return nil, apperrors.ErrPrizeNotFound
	}

	// 4. 重複得獎檢查：在碰 Ledger 之前先擋掉，不動到庫存
	_, err = s.repository.FindActiveByParticipantAndPrize(ctx, participant.ID, prize.ID)
	if err == nil {
		return nil, apperrors.ErrDuplicateAward
	}
	if !errors.Is(err, apperrors.ErrWinnerNotFound) {
		return nil, err
	}

	// 5. 扣名額 + 寫入得獎紀錄，同一個交易：
	//    寫入失敗時 rollback 會一併撤銷扣減，不會留下孤兒名額
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	decremented, err := s.prizeRepository.TryDecrementRemaining(ctx, tx, prize.ID)
	if err != nil {
		return nil, err
	}
	if !decremented {
		// 輸掉最後一個名額的競爭，正常結果
		return nil, apperrors.ErrPrizeExhausted
	}

	winner := &model.Winner{
		WinnerID:      uuid.New(),
		RoomID:        room.ID,
		ParticipantID: participant.ID,
		PrizeID:       prize.ID,
		Metadata:      req.Metadata,
	}

	created, err := s.repository.Create(ctx, tx, winner)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			// 扣減可能已生效但撤不回來，庫存出現缺口，需要人工對帳
			logger.WithComponent("winner-service").Error("data integrity incident: decrement may be leaked",
				zap.Int("prize_id", prize.ID),
				zap.String("prize_uuid", prize.PrizeID.String()),
				zap.NamedError("create_error", err),
				zap.NamedError("rollback_error", rbErr))
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Participant = participant
	prize.QuantityRemaining--
	created.Prize = prize

	// 6. 提交後才廣播，恰好一次；廣播失敗不影響已提交的狀態，訂閱者等下次刷新
	s.publishWinnerSelected(room, created)

	return created, nil
}

func (s *WinnerServiceImpl) ListWinners(ctx context.Context, roomID uuid.UUID) ([]*model.Winner, error) {
	room, err := s.roomRepository.FindByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.repository.ListByRoomID(ctx, room.ID)
}

func (s *WinnerServiceImpl) RevokeWinner(ctx context.Context, callerUserID int, roomID, winnerID uuid.UUID) error {
	room, err := s.roomRepository.FindByRoomID(ctx, roomID)
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

	winner, err := s.repository.FindByWinnerID(ctx, winnerID)
	if err != nil {
		return err
	}
	if winner.RoomID != room.ID {
		return apperrors.ErrWinnerNotFound
	}
	if winner.IsRevoked() {
		return apperrors.ErrAlreadyRevoked
	}

	// 軟刪除與歸還名額必須一起提交：只標記刪除卻沒歸還名額是資料錯誤
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.repository.Revoke(ctx, tx, winner.ID); err != nil {
		return err
	}

	if err := s.prizeRepository.IncrementRemaining(ctx, tx, winner.PrizeID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.publishWinnerRevoked(room, winner)

	return nil
}

func (s *WinnerServiceImpl) publishWinnerSelected(room *model.Room, winner *model.Winner) {
	evt, err := realtime.NewWinnerSelected(room.ID, room.RoomID, winner)
	if err == nil {
		// 狀態已提交，發布用獨立的 context，不跟著請求被取消
		err = s.eventQueue.PublishEvent(context.Background(), evt)
	}
	if err != nil {
		logger.WithComponent("winner-service").Warn("publish winner:selected failed, subscribers stale until refetch",
			zap.String("room_id", room.RoomID.String()),
			zap.String("winner_id", winner.WinnerID.String()),
			zap.Error(err))
	}
}

func (s *WinnerServiceImpl) publishWinnerRevoked(room *model.Room, winner *model.Winner) {
	var prizeID uuid.UUID
	if winner.Prize != nil {
		prizeID = winner.Prize.PrizeID
	}
	evt, err := realtime.NewWinnerRevoked(room.ID, room.RoomID, winner.WinnerID, prizeID)
	if err == nil {
		err = s.eventQueue.PublishEvent(context.Background(), evt)
	}
	if err != nil {
		logger.WithComponent("winner-service").Warn("publish winner:revoked failed, subscribers stale until refetch",
			zap.String("room_id", room.RoomID.String()),
			zap.String("winner_id", winner.WinnerID.String()),
			zap.Error(err))
	}
}
