package service

import (
	"context"
	"testing"

	"go-gin-prize-draw/config"
	"go-gin-prize-draw/internal/cache"
	"go-gin-prize-draw/internal/database"
	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/queue"
	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/repository"
	"go-gin-prize-draw/internal/service"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 回合狀態只存在 Redis，這組測試需要額外連測試用的 Redis
func newRoundService(t *testing.T) (service.RoundService, queue.EventQueue) {
	t.Helper()

	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err())

	db := getTestDB()
	roomRepo := repository.NewRoomRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	eventQueue := queue.NewEventQueue(64)

	svc := service.NewRoundService(cache.NewRoundStateManager(rdb), roomRepo, participantRepo, participantRepo, eventQueue)
	return svc, eventQueue
}

func TestRoundService_OpenAndGet(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc, q := newRoundService(t)

	organizer := createTestUser(t, "Organizer", "org@example.com")
	roomID, roomUUID := createTestRoom(t, "Party")
	createTestParticipant(t, roomID, organizer, "Organizer", "organizer")

	round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Lucky number?"})

	require.NoError(t, err)
	assert.NotEmpty(t, round.RoundID)
	assert.Equal(t, model.RoundStatusOpen, round.Status)

	evt := receiveEvent(t, q)
	assert.Equal(t, realtime.EventRoundOpened, evt.Event)

	fetched, err := svc.Get(ctx, roomUUID, round.RoundID)
	require.NoError(t, err)
	assert.Equal(t, "Lucky number?", fetched.Question)
}

func TestRoundService_Open_Forbidden(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc, _ := newRoundService(t)

	player := createTestUser(t, "Player", "player@example.com")
	roomID, roomUUID := createTestRoom(t, "Party")
	createTestParticipant(t, roomID, player, "Player", "player")

	_, err := svc.Open(ctx, player, roomUUID, model.OpenRoundRequest{Question: "Q"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRoundService_SubmitEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		player := createTestUser(t, "Player", "player@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")
		_, paUUID := createTestParticipant(t, roomID, player, "Player", "player")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)

		err = svc.SubmitEntry(ctx, player, roomUUID, round.RoundID, model.SubmitEntryRequest{Answer: "42"})
		require.NoError(t, err)

		result, err := svc.Close(ctx, organizer, roomUUID, round.RoundID)
		require.NoError(t, err)
		assert.Equal(t, "42", result.Entries[paUUID.String()])
	})

	// 同一參加者同一回合只能作答一次
	t.Run("DuplicateEntry", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		player := createTestUser(t, "Player", "player@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")
		createTestParticipant(t, roomID, player, "Player", "player")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)

		require.NoError(t, svc.SubmitEntry(ctx, player, roomUUID, round.RoundID, model.SubmitEntryRequest{Answer: "first"}))

		err = svc.SubmitEntry(ctx, player, roomUUID, round.RoundID, model.SubmitEntryRequest{Answer: "second"})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	// 非房間成員不能作答
	t.Run("Forbidden_NotParticipant", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		outsider := createTestUser(t, "Outsider", "out@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)

		err = svc.SubmitEntry(ctx, outsider, roomUUID, round.RoundID, model.SubmitEntryRequest{Answer: "sneaky"})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("RoundNotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		player := createTestUser(t, "Player", "player@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, player, "Player", "player")

		err := svc.SubmitEntry(ctx, player, roomUUID, "no-such-round", model.SubmitEntryRequest{Answer: "42"})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRoundNotFound)
	})
}

func TestRoundService_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessAndBroadcast", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, q := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)
		receiveEvent(t, q) // round:opened

		result, err := svc.Close(ctx, organizer, roomUUID, round.RoundID)

		require.NoError(t, err)
		assert.Equal(t, round.RoundID, result.RoundID)
		assert.Empty(t, result.Entries)

		evt := receiveEvent(t, q)
		assert.Equal(t, realtime.EventRoundClosed, evt.Event)

		// 回合資訊留到 TTL 到期，狀態標記為 closed
		closed, err := svc.Get(ctx, roomUUID, round.RoundID)
		require.NoError(t, err)
		assert.Equal(t, model.RoundStatusClosed, closed.Status)
	})

	// 重複結算
	t.Run("AlreadyClosed", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)

		_, err = svc.Close(ctx, organizer, roomUUID, round.RoundID)
		require.NoError(t, err)

		_, err = svc.Close(ctx, organizer, roomUUID, round.RoundID)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRoundClosed)
	})

	t.Run("Forbidden_NotOrganizer", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc, _ := newRoundService(t)

		organizer := createTestUser(t, "Organizer", "org@example.com")
		player := createTestUser(t, "Player", "player@example.com")
		roomID, roomUUID := createTestRoom(t, "Party")
		createTestParticipant(t, roomID, organizer, "Organizer", "organizer")
		createTestParticipant(t, roomID, player, "Player", "player")

		round, err := svc.Open(ctx, organizer, roomUUID, model.OpenRoundRequest{Question: "Q"})
		require.NoError(t, err)

		_, err = svc.Close(ctx, player, roomUUID, round.RoundID)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}
