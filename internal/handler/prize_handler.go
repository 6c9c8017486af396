package handler

import (
	"net/http"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrizeHandler struct {
	service service.PrizeService
	auth    gin.HandlerFunc
}

func NewPrizeHandler(service service.PrizeService, auth gin.HandlerFunc) *PrizeHandler {
	return &PrizeHandler{service: service, auth: auth}
}

func (h *PrizeHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("rooms/:roomID/prizes", h.List)
		router.GET("rooms/:roomID/prizes/:prizeID", h.Get)
		router.POST("rooms/:roomID/prizes", h.auth, h.Create)
		router.PUT("rooms/:roomID/prizes/:prizeID", h.auth, h.Update)
		router.DELETE("rooms/:roomID/prizes/:prizeID", h.auth, h.Delete)
	}
}

func (h *PrizeHandler) Create(c *gin.Context) {
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

	var req model.CreatePrizeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	prize, err := h.service.Create(c, user.ID, roomID, req)
	if err != nil {
		HandleError(c, err, "CreatePrize")
		return
	}

	RespondData(c, http.StatusCreated, prize)
}

func (h *PrizeHandler) List(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	prizes, err := h.service.ListByRoomID(c, roomID)
	if err != nil {
		HandleError(c, err, "ListPrizes")
		return
	}

	RespondData(c, http.StatusOK, prizes)
}

func (h *PrizeHandler) Get(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	prizeID, err := uuid.Parse(c.Param("prizeID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid prize id")
		return
	}

	prize, err := h.service.GetByPrizeID(c, roomID, prizeID)
	if err != nil {
		HandleError(c, err, "GetPrize")
		return
	}

	RespondData(c, http.StatusOK, prize)
}

func (h *PrizeHandler) Update(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	prizeID, err := uuid.Parse(c.Param("prizeID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid prize id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	var req model.UpdatePrizeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if req.Name == nil && req.Description == nil && req.Quantity == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "At least one of name, description or quantity is required")
		return
	}

	prize, err := h.service.Update(c, user.ID, roomID, prizeID, req)
	if err != nil {
		HandleError(c, err, "UpdatePrize")
		return
	}

	RespondData(c, http.StatusOK, prize)
}

func (h *PrizeHandler) Delete(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid room id")
		return
	}

	prizeID, err := uuid.Parse(c.Param("prizeID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid prize id")
		return
	}

	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	if err := h.service.Delete(c, user.ID, roomID, prizeID); err != nil {
		HandleError(c, err, "DeletePrize")
		return
	}

	c.Status(http.StatusNoContent)
}
