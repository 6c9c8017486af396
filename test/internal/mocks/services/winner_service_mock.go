package services

import (
	"context"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type WinnerServiceMock struct {
	mock.Mock
}

func NewWinnerServiceMock() *WinnerServiceMock {
	return &WinnerServiceMock{}
}

func (m *WinnerServiceMock) SelectWinner(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.SelectWinnerRequest) (*model.Winner, error) {
	args := m.Called(ctx, callerUserID, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Winner), args.Error(1)
}

func (m *WinnerServiceMock) ListWinners(ctx context.Context, roomID uuid.UUID) ([]*model.Winner, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Winner), args.Error(1)
}

func (m *WinnerServiceMock) RevokeWinner(ctx context.Context, callerUserID int, roomID, winnerID uuid.UUID) error {
	args := m.Called(ctx, callerUserID, roomID, winnerID)
	return args.Error(0)
}
