package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ParticipantHandler struct {
	service service.ParticipantService
	auth    gin.HandlerFunc
}

func NewParticipantHandler(service service.ParticipantService, auth gin.HandlerFunc) *ParticipantHandler {
	return &ParticipantHandler{service: service, auth: auth}
}

func (h *ParticipantHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rooms/:roomID/participants", h.List)
		router.POST("rooms/:roomID/participants", h.auth, h.Join)
		router.DELETE("rooms/:roomID/participants/:participantID", h.auth, h.Remove)
	}
}

func (h *ParticipantHandler) Join(c *gin.Context) {
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

	var req model.JoinRoomRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	participant, err := h.service.Join(c, user, roomID, req)
	if err != nil {
		HandleError(c, err, "JoinRoom")
		return
	}

	RespondData(c, http.StatusCreated, participant)
}

func (h *ParticipantHandler) List(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	participants, err := h.service.ListByRoomID(c, roomID)
	if err != nil {
		HandleError(c, err, "ListParticipants")
		return
	}

	RespondData(c, http.StatusOK, participants)
}

func (h *ParticipantHandler) Remove(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	participantID, err := uuid.Parse(c.Param("participantID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid participant id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	if err := h.service.Remove(c, user.ID, roomID, participantID); err != nil {
		HandleError(c, err, "RemoveParticipant")
		return
	}

	c.Status(http.StatusNoContent)
}
