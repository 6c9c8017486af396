package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-gin-prize-draw/internal/model"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

// RoundStateManager 房間回合的暫態儲存。
// 回合狀態只活在 Redis：開回合時建立、結算或 TTL 到期時清除，
// 不依賴 process 存活，也不會隨 process 生命週期無限成長。
type RoundStateManager interface {
	// 開啟回合；同一回合 id 不可重複開啟
	OpenRound(ctx context.Context, roomID int, round *model.Round, ttl time.Duration) error
	// 取得回合資訊
	GetRound(ctx context.Context, roomID int, roundID string) (*model.Round, error)
	// 提交作答 (使用Lua腳本確保原子性：回合關閉或重複作答都會被拒絕)
	SubmitEntry(ctx context.Context, roomID int, roundID string, participantID string, answer string) error
	// 結算回合 (使用Lua腳本原子性地標記關閉並收集作答)
	CloseRound(ctx context.Context, roomID int, roundID string) (map[string]string, error)
}

type RoundStateManagerImpl struct {
	client *redis.Client
}

func NewRoundStateManager(client *redis.Client) RoundStateManager {
	return &RoundStateManagerImpl{
		client: client,
	}
}

// 回合資訊 key
func (m *RoundStateManagerImpl) getRoundKey(roomID int, roundID string) string {
	return fmt.Sprintf("room:%d:round:%s", roomID, roundID)
}

// 作答紀錄 key
func (m *RoundStateManagerImpl) getEntriesKey(roomID int, roundID string) string {
	return fmt.Sprintf("room:%d:round:%s:entries", roomID, roundID)
}

func (m *RoundStateManagerImpl) OpenRound(ctx context.Context, roomID int, round *model.Round, ttl time.Duration) error {
	key := m.getRoundKey(roomID, round.RoundID)

	script := `
		-- 同一回合只能開一次
		if redis.call('EXISTS', KEYS[1]) == 1 then
			return -1
		end
		redis.call('HSET', KEYS[1], 'question', ARGV[1], 'status', 'open', 'opened_at', ARGV[2])
		redis.call('PEXPIRE', KEYS[1], ARGV[3])
		return 1
	`

	result, err := m.client.Eval(ctx, script, []string{key},
		round.Question, round.OpenedAt.UTC().Format(time.RFC3339Nano), ttl.Milliseconds(),
	).Result()
	if err != nil {
		return err
	}

	if result.(int64) != 1 {
		return apperrors.ErrInvalidInput
	}
	return nil
}

func (m *RoundStateManagerImpl) GetRound(ctx context.Context, roomID int, roundID string) (*model.Round, error) {
	key := m.getRoundKey(roomID, roundID)
	result, err := m.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	// 檢查 key 是否存在
	if len(result) == 0 {
		return nil, apperrors.ErrRoundNotFound
	}

	openedAt, err := time.Parse(time.RFC3339Nano, result["opened_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid opened_at: %v", err)
	}

	return &model.Round{
		RoundID:  roundID,
		RoomID:   roomID,
		Question: result["question"],
		Status:   model.RoundStatus(result["status"]),
		OpenedAt: openedAt,
	}, nil
}

/*
提交作答 (使用Lua腳本確保原子性)
1. 檢查回合存在且還開著
2. 檢查是否重複作答
3. 寫入作答並對齊回合的 TTL
*/
func (m *RoundStateManagerImpl) SubmitEntry(ctx context.Context, roomID int, roundID string, participantID string, answer string) error {
	key := m.getRoundKey(roomID, roundID)
	entriesKey := m.getEntriesKey(roomID, roundID)

	script := `
		local round_key = KEYS[1]
		local entries_key = KEYS[2]
		local participant_id = ARGV[1]
		local answer = ARGV[2]

		-- 1. 檢查回合存在且還開著
		local status = redis.call('HGET', round_key, 'status')
		if not status then
			return -3 -- 錯誤：回合不存在
		end
		if status ~= 'open' then
			return -1 -- 錯誤：回合已關閉
		end

		-- 2. 檢查是否重複作答
		if redis.call('HEXISTS', entries_key, participant_id) == 1 then
			return -2 -- 錯誤：重複作答
		end

		-- 3. 寫入作答並對齊回合的 TTL
		redis.call('HSET', entries_key, participant_id, answer)
		local ttl = redis.call('PTTL', round_key)
		if ttl > 0 then
			redis.call('PEXPIRE', entries_key, ttl)
		end

		return 1
	`

	result, err := m.client.Eval(ctx, script, []string{key, entriesKey}, participantID, answer).Result()
	if err != nil {
		return err
	}

	switch result.(int64) {
	case 1:
		return nil
	case -1:
		return apperrors.ErrRoundClosed
	case -2:
		return apperrors.ErrDuplicateEntry
	case -3:
		return apperrors.ErrRoundNotFound
	default:
		return errors.New("unexpected result")
	}
}

// CloseRound 原子性地標記回合關閉並收集所有作答；
// 關閉後作答紀錄即刪除，回合資訊留到 TTL 到期
func (m *RoundStateManagerImpl) CloseRound(ctx context.Context, roomID int, roundID string) (map[string]string, error) {
	key := m.getRoundKey(roomID, roundID)
	entriesKey := m.getEntriesKey(roomID, roundID)

	script := `
		local round_key = KEYS[1]
		local entries_key = KEYS[2]

		local status = redis.call('HGET', round_key, 'status')
		if not status then
			return redis.error_reply('ROUND_NOT_FOUND')
		end
		if status ~= 'open' then
			return redis.error_reply('ROUND_CLOSED')
		end

		redis.call('HSET', round_key, 'status', 'closed')
		local entries = redis.call('HGETALL', entries_key)
		redis.call('DEL', entries_key)

		return entries
	`

	result, err := m.client.Eval(ctx, script, []string{key, entriesKey}).Result()
	if err != nil {
		switch err.Error() {
		case "ROUND_NOT_FOUND":
			return nil, apperrors.ErrRoundNotFound
		case "ROUND_CLOSED":
			return nil, apperrors.ErrRoundClosed
		}
		return nil, err
	}

	resSlice, ok := result.([]interface{})
	if !ok {
		return nil, errors.New("unexpected result")
	}

	entries := make(map[string]string, len(resSlice)/2)
	for i := 0; i+1 < len(resSlice); i += 2 {
		field, _ := resSlice[i].(string)
		value, _ := resSlice[i+1].(string)
		entries[field] = value
	}

	return entries, nil
}
