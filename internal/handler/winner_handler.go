package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WinnerHandler struct {
	service service.WinnerService
	auth    gin.HandlerFunc
}

func NewWinnerHandler(service service.WinnerService, auth gin.HandlerFunc) *WinnerHandler {
	return &WinnerHandler{service: service, auth: auth}
}

func (h *WinnerHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rooms/:roomID/winners", h.List)
		router.POST("rooms/:roomID/winners", h.auth, h.Select)
		router.DELETE("rooms/:roomID/winners/:winnerID", h.auth, h.Revoke)
	}
}

func (h *WinnerHandler) Select(c *gin.Context) {
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

	var req model.SelectWinnerRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	winner, err := h.service.SelectWinner(c, user.ID, roomID, req)
	if err != nil {
		HandleError(c, err, "SelectWinner")
		return
	}

	RespondData(c, http.StatusCreated, winner)
}

func (h *WinnerHandler) List(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	winners, err := h.service.ListWinners(c, roomID)
	if err != nil {
		HandleError(c, err, "ListWinners")
		return
	}

	RespondData(c, http.StatusOK, winners)
}

func (h *WinnerHandler) Revoke(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	winnerID, err := uuid.Parse(c.Param("winnerID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid winner id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	if err := h.service.RevokeWinner(c, user.ID, roomID, winnerID); err != nil {
		HandleError(c, err, "RevokeWinner")
		return
	}

	RespondData(c, http.StatusOK, gin.H{"revoked": true})
}
