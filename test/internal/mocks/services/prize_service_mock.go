package services

import (
	"context"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PrizeServiceMock struct {
	mock.Mock
}

func NewPrizeServiceMock() *PrizeServiceMock {
	return &PrizeServiceMock{}
}

func (m *PrizeServiceMock) Create(ctx context.Context, callerUserID int, roomID uuid.UUID, req model.CreatePrizeRequest) (*model.Prize, error) {
	args := m.Called(ctx, callerUserID, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prize), args.Error(1)
}

func (m *PrizeServiceMock) ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Prize, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Prize), args.Error(1)
}

func (m *PrizeServiceMock) GetByPrizeID(ctx context.Context, roomID, prizeID uuid.UUID) (*model.Prize, error) {
	args := m.Called(ctx, roomID, prizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prize), args.Error(1)
}

func (m *PrizeServiceMock) Update(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID, req model.UpdatePrizeRequest) (*model.Prize, error) {
	args := m.Called(ctx, callerUserID, roomID, prizeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prize), args.Error(1)
}

func (m *PrizeServiceMock) Delete(ctx context.Context, callerUserID int, roomID, prizeID uuid.UUID) error {
	args := m.Called(ctx, callerUserID, roomID, prizeID)
	return args.Error(0)
}
