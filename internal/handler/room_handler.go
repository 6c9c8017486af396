package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	service service.RoomService
	auth    gin.HandlerFunc
}

func NewRoomHandler(service service.RoomService, auth gin.HandlerFunc) *RoomHandler {
	return &RoomHandler{service: service, auth: auth}
}

func (h *RoomHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rooms", h.List)
		router.GET("rooms/:roomID", h.Get)
		router.POST("rooms", h.auth, h.Create)
		router.PUT("rooms/:roomID", h.auth, h.Update)
		router.DELETE("rooms/:roomID", h.auth, h.Delete)
	}
}

// CreateRoomRequest 建立房間請求
type CreateRoomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateRoomRequest 更新房間請求
type UpdateRoomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	var req CreateRoomRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	room, err := h.service.Create(c, user, req.Name, req.Description)
	if err != nil {
		HandleError(c, err, "CreateRoom")
		return
	}

	RespondData(c, http.StatusCreated, room)
}

func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.service.List(c)
	if err != nil {
		HandleError(c, err, "ListRooms")
		return
	}
	RespondData(c, http.StatusOK, rooms)
}

func (h *RoomHandler) Get(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	room, err := h.service.GetByRoomID(c, roomID)
	if err != nil {
		HandleError(c, err, "GetRoom")
		return
	}

	RespondData(c, http.StatusOK, room)
}

func (h *RoomHandler) Update(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	var req UpdateRoomRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if req.Name == nil && req.Description == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "At least one of name or description is required")
		return
	}

	room, err := h.service.Update(c, user.ID, roomID, model.UpdateRoomParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleError(c, err, "UpdateRoom")
		return
	}

	RespondData(c, http.StatusOK, room)
}

func (h *RoomHandler) Delete(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	if err := h.service.Delete(c, user.ID, roomID); err != nil {
		HandleError(c, err, "DeleteRoom")
		return
	}

	c.Status(http.StatusNoContent)
}
