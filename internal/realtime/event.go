package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"go-gin-prize-draw/internal/model"

	"github.com/google/uuid"
)

// EventKind 房間事件類型，封閉列舉：Broadcaster 與客戶端共用同一份目錄
type EventKind string

const (
	EventWinnerSelected EventKind = "winner:selected"
	EventWinnerRevoked  EventKind = "winner:revoked"
	EventPrizeUpdated   EventKind = "prize:updated"
	EventRoundOpened    EventKind = "round:opened"
	EventRoundClosed    EventKind = "round:closed"
)

// IsValid 驗證事件類型是否有效
func (k EventKind) IsValid() bool {
	switch k {
	case EventWinnerSelected, EventWinnerRevoked, EventPrizeUpdated, EventRoundOpened, EventRoundClosed:
		return true
	}
	return false
}

// Envelope 廣播封包。RoomRef 是內部路由用的房間主鍵，不輸出給客戶端；
// Payload 在建構時就序列化完成，Hub 只負責轉發，不解讀內容。
type Envelope struct {
	RoomRef   int             `json:"-"`
	RoomID    uuid.UUID       `json:"room_id"`
	Event     EventKind       `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func newEnvelope(roomRef int, roomID uuid.UUID, kind EventKind, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return &Envelope{
		RoomRef:   roomRef,
		RoomID:    roomID,
		Event:     kind,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

type WinnerSelectedPayload struct {
	Winner *model.Winner `json:"winner"`
}

type WinnerRevokedPayload struct {
	WinnerID uuid.UUID `json:"winner_id"`
	PrizeID  uuid.UUID `json:"prize_id"`
}

type PrizeUpdatedPayload struct {
	Prize *model.Prize `json:"prize"`
}

type RoundOpenedPayload struct {
	Round *model.Round `json:"round"`
}

type RoundClosedPayload struct {
	Result *model.RoundResult `json:"result"`
}

func NewWinnerSelected(roomRef int, roomID uuid.UUID, winner *model.Winner) (*Envelope, error) {
	return newEnvelope(roomRef, roomID, EventWinnerSelected, WinnerSelectedPayload{Winner: winner})
}

func NewWinnerRevoked(roomRef int, roomID, winnerID, prizeID uuid.UUID) (*Envelope, error) {
	return newEnvelope(roomRef, roomID, EventWinnerRevoked, WinnerRevokedPayload{WinnerID: winnerID, PrizeID: prizeID})
}

func NewPrizeUpdated(roomRef int, roomID uuid.UUID, prize *model.Prize) (*Envelope, error) {
	return newEnvelope(roomRef, roomID, EventPrizeUpdated, PrizeUpdatedPayload{Prize: prize})
}

func NewRoundOpened(roomRef int, roomID uuid.UUID, round *model.Round) (*Envelope, error) {
	return newEnvelope(roomRef, roomID, EventRoundOpened, RoundOpenedPayload{Round: round})
}

func NewRoundClosed(roomRef int, roomID uuid.UUID, result *model.RoundResult) (*Envelope, error) {
	return newEnvelope(roomRef, roomID, EventRoundClosed, RoundClosedPayload{Result: result})
}
