package handler

import (
	"errors"
	"net/http"

	apperrors "go-gin-prize-draw/pkg/app_errors"
	"go-gin-prize-draw/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody 統一的錯誤回應內容
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Envelope 所有 REST 回應共用的外層格式
type Envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorBody  `json:"error,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}

func RespondData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Data: data})
}

func RespondError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Envelope{Error: &ErrorBody{Code: code, Message: message}})
}

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request format")
		return err
	}
	return nil
}

func BindUri(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindUri(obj); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request format")
		return err
	}
	return nil
}

// HandleError 把 service 層的 sentinel error 轉成統一的狀態碼與錯誤代碼
func HandleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrRoomNotFound),
		errors.Is(err, apperrors.ErrParticipantNotFound),
		errors.Is(err, apperrors.ErrPrizeNotFound),
		errors.Is(err, apperrors.ErrWinnerNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrRoundNotFound),
		errors.Is(err, apperrors.ErrAlreadyRevoked):
		log.Warn("Resource not found")
		RespondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		RespondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, apperrors.ErrDuplicateAward):
		log.Warn("Duplicate award")
		RespondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, apperrors.ErrPrizeExhausted):
		// 競爭輸掉的正常結果，跟真正的系統錯誤分開回報
		log.Warn("Prize exhausted")
		RespondError(c, http.StatusConflict, "PRIZE_EXHAUSTED", err.Error())
	case errors.Is(err, apperrors.ErrPrizeHasWinners),
		errors.Is(err, apperrors.ErrAlreadyJoined),
		errors.Is(err, apperrors.ErrRoundClosed),
		errors.Is(err, apperrors.ErrDuplicateEntry):
		log.Warn("Conflict")
		RespondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		log.Error("Unexpected error")
		RespondError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}
