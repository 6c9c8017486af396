package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("users", h.Register)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req model.CreateUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.service.Register(c, req)
	if err != nil {
		HandleError(c, err, "RegisterUser")
		return
	}

	RespondData(c, http.StatusCreated, model.CreateUserResponse{
		UserID:   user.UserID,
		Name:     user.Name,
		Email:    user.Email,
		APIToken: user.APIToken,
	})
}
