package apperrors

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrPrizeNotFound       = errors.New("prize not found")
	ErrWinnerNotFound      = errors.New("winner not found")

	// ErrPrizeExhausted 搶最後一個名額輸掉的正常結果，不是系統錯誤
	ErrPrizeExhausted  = errors.New("prize exhausted")
	ErrDuplicateAward  = errors.New("duplicate award")
	ErrAlreadyRevoked  = errors.New("winner already revoked")
	ErrPrizeHasWinners = errors.New("prize has active winners")
	ErrAlreadyJoined   = errors.New("user already joined room")

	ErrRoundNotFound  = errors.New("round not found")
	ErrRoundClosed    = errors.New("round closed")
	ErrDuplicateEntry = errors.New("duplicate round entry")

	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
