package services

import (
	"context"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type RoomServiceMock struct {
	mock.Mock
}

func NewRoomServiceMock() *RoomServiceMock {
	return &RoomServiceMock{}
}

func (m *RoomServiceMock) Create(ctx context.Context, caller *model.User, name string, description *string) (*model.Room, error) {
	args := m.Called(ctx, caller, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *RoomServiceMock) List(ctx context.Context) ([]*model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Room), args.Error(1)
}

func (m *RoomServiceMock) GetByRoomID(ctx context.Context, roomID uuid.UUID) (*model.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *RoomServiceMock) Update(ctx context.Context, callerUserID int, roomID uuid.UUID, params model.UpdateRoomParams) (*model.Room, error) {
	args := m.Called(ctx, callerUserID, roomID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *RoomServiceMock) Delete(ctx context.Context, callerUserID int, roomID uuid.UUID) error {
	args := m.Called(ctx, callerUserID, roomID)
	return args.Error(0)
}
