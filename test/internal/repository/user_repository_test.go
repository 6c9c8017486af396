package repository

import (
	"context"
	"testing"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/repository"
	apperrors "go-gin-prize-draw/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	repo := repository.NewUserRepository(getTestDB())
	ctx := context.Background()

	user := &model.User{
		UserID:   uuid.New(),
		Name:     "Alice",
		Email:    "alice@example.com",
		APIToken: "token-abc",
	}

	created, err := repo.Create(ctx, user)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "token-abc", created.APIToken)
}

func TestUserRepository_FindByID(t *testing.T) {
	repo := repository.NewUserRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		id := createTestUser(t, "Bob", "bob@example.com")

		found, err := repo.FindByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "Bob", found.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByID(ctx, 99999)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})
}

func TestUserRepository_FindByAPIToken(t *testing.T) {
	repo := repository.NewUserRepository(getTestDB())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		user := &model.User{
			UserID:   uuid.New(),
			Name:     "Carol",
			Email:    "carol@example.com",
			APIToken: "token-carol",
		}
		_, err := repo.Create(ctx, user)
		require.NoError(t, err)

		found, err := repo.FindByAPIToken(ctx, "token-carol")

		require.NoError(t, err)
		assert.Equal(t, "Carol", found.Name)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		cleanup := setupTestWithTruncate(t)
		defer cleanup()

		_, err := repo.FindByAPIToken(ctx, "no-such-token")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})
}
