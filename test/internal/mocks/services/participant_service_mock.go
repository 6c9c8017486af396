package services

import (
	"context"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ParticipantServiceMock struct {
	mock.Mock
}

func NewParticipantServiceMock() *ParticipantServiceMock {
	return &ParticipantServiceMock{}
}

func (m *ParticipantServiceMock) Join(ctx context.Context, caller *model.User, roomID uuid.UUID, req model.JoinRoomRequest) (*model.Participant, error) {
	args := m.Called(ctx, caller, roomID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Participant), args.Error(1)
}

func (m *ParticipantServiceMock) ListByRoomID(ctx context.Context, roomID uuid.UUID) ([]*model.Participant, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Participant), args.Error(1)
}

func (m *ParticipantServiceMock) Remove(ctx context.Context, callerUserID int, roomID, participantID uuid.UUID) error {
	args := m.Called(ctx, callerUserID, roomID, participantID)
	return args.Error(0)
}
