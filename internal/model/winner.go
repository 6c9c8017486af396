package model

import (
	"time"

	"github.com/google/uuid"
)

// Winner 得獎紀錄；一筆 revoked_at 為空的紀錄代表一個名額已被佔用
type Winner struct {
	ID            int                    `json:"id" db:"id"`
	WinnerID      uuid.UUID              `json:"winner_id" db:"winner_id"`
	RoomID        int                    `json:"room_id" db:"room_id"`
	ParticipantID int                    `json:"-" db:"participant_id"`
	PrizeID       int                    `json:"-" db:"prize_id"`
	Metadata      map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at" db:"updated_at"`
	RevokedAt     *time.Time             `json:"revoked_at,omitempty" db:"revoked_at"`

	Participant *Participant `json:"participant,omitempty" db:"-"`
	Prize       *Prize       `json:"prize,omitempty" db:"-"`
}

// IsRevoked 檢查得獎紀錄是否已撤銷
func (w *Winner) IsRevoked() bool {
	return w.RevokedAt != nil
}

// SelectWinnerRequest 指定得獎者請求；Metadata 為不透明的附加資訊（抽選演算法等），服務端不解讀
type SelectWinnerRequest struct {
	ParticipantID uuid.UUID              `json:"participant_id" binding:"required"`
	PrizeID       uuid.UUID              `json:"prize_id" binding:"required"`
	Metadata      map[string]interface{} `json:"metadata"`
}
