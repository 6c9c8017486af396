package queue_test

import (
	"context"
	"testing"
	"time"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanupStream(ctx context.Context, t *testing.T) {
	t.Helper()
	_ = testRdb.Del(ctx, queue.StreamKey).Err()
}

func newTestEnvelope(t *testing.T, roomRef int) *realtime.Envelope {
	t.Helper()
	evt, err := realtime.NewWinnerRevoked(roomRef, uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return evt
}

// --- 1. 建構 ---

func TestNewRedisStreamEventQueue(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	t.Run("success", func(t *testing.T) {
		q, err := queue.NewRedisStreamEventQueue(testRdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("empty_consumer_id_generates_uuid", func(t *testing.T) {
		cleanupStream(ctx, t)
		q, err := queue.NewRedisStreamEventQueue(testRdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

// --- 2. 發送（基本成功即可；完整「有收到」由訂閱測試涵蓋）---

func TestRedisStreamEventQueue_PublishEvent(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamEventQueue(testRdb, "pub-test", nil)
	require.NoError(t, err)

	err = q.PublishEvent(ctx, newTestEnvelope(t, 42))
	require.NoError(t, err)
}

// --- 3. 訂閱與投遞：驗證「發出去的內容」與「收進來的內容」一致 ---

func TestRedisStreamEventQueue_Subscribe_deliversPublishedEvent(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamEventQueue(testRdb, "deliver-test", nil)
	require.NoError(t, err)

	evt := newTestEnvelope(t, 7)
	require.NoError(t, q.PublishEvent(ctx, evt))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok, "應收到一筆")
		require.NotNil(t, d.Data)
		assert.Equal(t, evt.RoomID, d.Data.RoomID)
		assert.Equal(t, evt.Event, d.Data.Event)
		// RoomRef 不進 JSON 封包，由另外一欄還原
		assert.Equal(t, 7, d.Data.RoomRef)
		assert.JSONEq(t, string(evt.Payload), string(d.Data.Payload))
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

// --- 4. 順序：同一房間的事件依發布順序投遞 ---

func TestRedisStreamEventQueue_preservesPublishOrder(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamEventQueue(testRdb, "ordering-test", nil)
	require.NoError(t, err)

	roomID := uuid.New()
	kinds := []realtime.EventKind{
		realtime.EventRoundOpened,
		realtime.EventWinnerSelected,
		realtime.EventWinnerRevoked,
		realtime.EventRoundClosed,
	}
	for _, kind := range kinds {
		var evt *realtime.Envelope
		var err error
		switch kind {
		case realtime.EventRoundOpened:
			evt, err = realtime.NewRoundOpened(1, roomID, &model.Round{RoundID: "r1"})
		case realtime.EventWinnerSelected:
			evt, err = realtime.NewWinnerSelected(1, roomID, &model.Winner{WinnerID: uuid.New()})
		case realtime.EventWinnerRevoked:
			evt, err = realtime.NewWinnerRevoked(1, roomID, uuid.New(), uuid.New())
		case realtime.EventRoundClosed:
			evt, err = realtime.NewRoundClosed(1, roomID, &model.RoundResult{RoundID: "r1"})
		}
		require.NoError(t, err)
		require.NoError(t, q.PublishEvent(ctx, evt))
	}

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	for i, expected := range kinds {
		select {
		case d, ok := <-delCh:
			require.True(t, ok)
			assert.Equal(t, expected, d.Data.Event, "event %d out of order", i)
			d.Ack()
		case <-subCtx.Done():
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
}

// --- 5. Ack 結果：Ack 後該訊息不應再被投遞 ---

func TestRedisStreamEventQueue_Ack_preventsRedelivery(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamEventQueue(testRdb, "ack-test", nil)
	require.NoError(t, err)

	evt := newTestEnvelope(t, 1)
	require.NoError(t, q.PublishEvent(ctx, evt))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// 驗證結果：下一讀應為 channel 關閉（cancel 後），不應再收到同一筆
	cancel()
	_, ok := <-delCh
	assert.False(t, ok, "Ack 後不應再投遞；下一讀應為 channel 關閉")
}

// --- 6. Nack(false) 結果：丟棄後該訊息不應再被投遞 ---

func TestRedisStreamEventQueue_NackDiscard_preventsRedelivery(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamEventQueue(testRdb, "nack-discard-test", nil)
	require.NoError(t, err)

	evt := newTestEnvelope(t, 1)
	require.NoError(t, q.PublishEvent(ctx, evt))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		d.Nack(false)
	case <-subCtx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// 驗證結果：短時間內不應再收到同一筆（已丟棄）
	select {
	case d, ok := <-delCh:
		if ok && d.Data != nil {
			t.Fatal("Nack(false) 後不應再投遞同一筆，表示未正確丟棄")
		}
	case <-time.After(2 * time.Second):
		// 2 秒內無第二次投遞，視為已丟棄
	}
	cancel()
}

// --- 7. Nack(true) 結果：重試時應在約 ClaimMinIdleTime 後再次投遞 ---

func TestRedisStreamEventQueue_NackRequeue_redeliversAfterIdle(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamEventQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 500 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamEventQueue(testRdb, "nack-requeue-test", cfg)
	require.NoError(t, err)

	evt := newTestEnvelope(t, 1)
	require.NoError(t, q.PublishEvent(ctx, evt))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		d.Nack(true)
	case <-subCtx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// 驗證結果：應在 ClaimMinIdleTime 後再次收到同一筆（XAUTOCLAIM 領回）
	select {
	case d, ok := <-delCh:
		require.True(t, ok, "Nack(requeue) 後應在 ClaimMinIdleTime 後再次投遞")
		require.NotNil(t, d.Data)
		assert.Equal(t, evt.RoomID, d.Data.RoomID, "重試應為同一筆")
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout 未收到重試投遞")
	}
}

// --- 8. 毒藥消息：超過 MaxRetryCount 後應被丟棄，不再投遞 ---

// 注入短逾時與較小 MaxRetryCount，測試可在數秒內完成
func TestRedisStreamEventQueue_poisonMessage_discardedAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamEventQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		MaxRetryCount:      3,
		ReadGroupBlockTime: 200 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamEventQueue(testRdb, "poison-test", cfg)
	require.NoError(t, err)

	evt := newTestEnvelope(t, 1)
	require.NoError(t, q.PublishEvent(ctx, evt))

	subCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	delCh, err := q.SubscribeEvents(subCtx)
	require.NoError(t, err)

	// 每次收到都 Nack(requeue)；超過 MaxRetryCount 後實作會丟棄，不再投遞
	deliveries := 0
	done := false
	for !done {
		select {
		case d, ok := <-delCh:
			if !ok {
				done = true
				break
			}
			deliveries++
			d.Nack(true)
		case <-time.After(2 * time.Second):
			// 2 秒內沒有新投遞，視為已丟棄
			done = true
		}
	}

	assert.LessOrEqual(t, deliveries, cfg.MaxRetryCount+1, "poison message should stop being redelivered")
	assert.GreaterOrEqual(t, deliveries, 1)
}
