package services

import (
	"context"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RoundServiceMock struct {
	mock.Mock
}

func NewRoundServiceMock() *RoundServiceMock {
	return &RoundServiceMock{}
}

func (m *RoundServiceMock) Open(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.OpenRoundRequest) (*model.Round, error) {
	args := m.Called(ctx, callerUserID, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Round), args.Error(1)
}

func (m *RoundServiceMock) Get(ctx context.Context, roomID uuid.UUID, roundID string) (*model.Round, error) {
	args := m.Called(ctx, roomID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Round), args.Error(1)
}

func (m *RoundServiceMock) SubmitEntry(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string, req model.SubmitEntryRequest) error {
	args := m.Called(ctx, callerUserID, roomID, roundID, req)
	return args.Error(0)
}

func (m *RoundServiceMock) Close(ctx context.Context, callerUserID int, roomID uuid.UUID, roundID string) (*model.RoundResult, error) {
	args := m.Called(ctx, callerUserID, roomID, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoundResult), args.Error(1)
}
