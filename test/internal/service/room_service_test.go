package service

import (
	"context"
	"testing"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/repository"
	"go-gin-prize-draw/internal/service"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomService(t *testing.T) service.RoomService {
	t.Helper()
	db := getTestDB()
	roomRepo := repository.NewRoomRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	return service.NewRoomService(db, roomRepo, participantRepo, participantRepo)
}

func getUser(t *testing.T, id int) *model.User {
	t.Helper()
	user, err := repository.NewUserRepository(getTestDB()).FindByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func TestRoomService_Create(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc := newRoomService(t)

	userID := createTestUser(t, "Alice", "alice@example.com")
	caller := getUser(t, userID)
	desc := "Annual celebration"

	room, err := svc.Create(ctx, caller, "Year End Party", &desc)

	require.NoError(t, err)
	assert.NotZero(t, room.ID)
	assert.Equal(t, "Year End Party", room.Name)

	// 建立者自動成為主辦人
	participantRepo := repository.NewParticipantRepository(getTestDB())
	ok, err := participantRepo.IsOrganizer(ctx, userID, room.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRoomService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newRoomService(t)

		userID := createTestUser(t, "Alice", "alice@example.com")
		caller := getUser(t, userID)
		room, err := svc.Create(ctx, caller, "Original", nil)
		require.NoError(t, err)

		name := "Renamed"
		updated, err := svc.Update(ctx, userID, room.RoomID, model.UpdateRoomParams{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("Forbidden_NotOrganizer", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newRoomService(t)

		ownerID := createTestUser(t, "Owner", "owner@example.com")
		strangerID := createTestUser(t, "Stranger", "stranger@example.com")
		room, err := svc.Create(ctx, getUser(t, ownerID), "Private", nil)
		require.NoError(t, err)

		name := "Hijacked"
		_, err = svc.Update(ctx, strangerID, room.RoomID, model.UpdateRoomParams{Name: &name})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newRoomService(t)

		userID := createTestUser(t, "Alice", "alice@example.com")
		name := "Nowhere"

		_, err := svc.Update(ctx, userID, uuid.New(), model.UpdateRoomParams{Name: &name})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newRoomService(t)

		userID := createTestUser(t, "Alice", "alice@example.com")
		room, err := svc.Create(ctx, getUser(t, userID), "Ephemeral", nil)
		require.NoError(t, err)

		err = svc.Delete(ctx, userID, room.RoomID)
		require.NoError(t, err)

		_, err = svc.GetByRoomID(ctx, room.RoomID)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	})

	t.Run("Forbidden_NotOrganizer", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		svc := newRoomService(t)

		ownerID := createTestUser(t, "Owner", "owner@example.com")
		strangerID := createTestUser(t, "Stranger", "stranger@example.com")
		room, err := svc.Create(ctx, getUser(t, ownerID), "Private", nil)
		require.NoError(t, err)

		err = svc.Delete(ctx, strangerID, room.RoomID)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestRoomService_List(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc := newRoomService(t)

	userID := createTestUser(t, "Alice", "alice@example.com")
	caller := getUser(t, userID)

	_, err := svc.Create(ctx, caller, "Room A", nil)
	require.NoError(t, err)
	roomB, err := svc.Create(ctx, caller, "Room B", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, roomB.RoomID))

	rooms, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Equal(t, "Room A", rooms[0].Name)
}
