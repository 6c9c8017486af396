package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoundHandler struct {
	service service.RoundService
	auth    gin.HandlerFunc
}

func NewRoundHandler(service service.RoundService, auth gin.HandlerFunc) *RoundHandler {
	return &RoundHandler{service: service, auth: auth}
}

func (h *RoundHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rooms/:roomID/rounds/:roundID", h.Get)
		router.POST("rooms/:roomID/rounds", h.auth, h.Open)
		router.POST("rooms/:roomID/rounds/:roundID/entries", h.auth, h.SubmitEntry)
		router.POST("rooms/:roomID/rounds/:roundID/close", h.auth, h.Close)
	}
}

func (h *RoundHandler) Open(c *gin.Context) {
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

	var req model.OpenRoundRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	round, err := h.service.Open(c, user.ID, roomID, req)
	if err != nil {
		HandleError(c, err, "OpenRound")
		return
	}

	RespondData(c, http.StatusCreated, round)
}

func (h *RoundHandler) Get(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	round, err := h.service.Get(c, roomID, c.Param("roundID"))
	if err != nil {
		HandleError(c, err, "GetRound")
		return
	}

	RespondData(c, http.StatusOK, round)
}

func (h *RoundHandler) SubmitEntry(c *gin.Context) {
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

	var req model.SubmitEntryRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.SubmitEntry(c, user.ID, roomID, c.Param("roundID"), req); err != nil {
		HandleError(c, err, "SubmitEntry")
		return
	}

	RespondData(c, http.StatusCreated, gin.H{"submitted": true})
}

func (h *RoundHandler) Close(c *gin.Context) {
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

	result, err := h.service.Close(c, user.ID, roomID, c.Param("roundID"))
	if err != nil {
		HandleError(c, err, "CloseRound")
		return
	}

	RespondData(c, http.StatusOK, result)
}
