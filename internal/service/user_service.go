package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	// Register 建立使用者並簽發 api token；token 只在這裡回傳一次
	Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	FindByAPIToken(ctx context.Context, token string) (*model.User, error)
}

type UserServiceImpl struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	token, err := generateAPIToken()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:   uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		APIToken: token,
	}

	return s.repo.Create(ctx, user)
}

func (s *UserServiceImpl) FindByAPIToken(ctx context.Context, token string) (*model.User, error) {
	return s.repo.FindByAPIToken(ctx, token)
}

func generateAPIToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
