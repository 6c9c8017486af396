package model

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRole 參加者角色類型
type ParticipantRole string

const (
	RoleOrganizer ParticipantRole = "organizer"
	RolePlayer    ParticipantRole = "player"
)

// IsValid 驗證角色是否有效
func (r ParticipantRole) IsValid() bool {
	switch r {
	case RoleOrganizer, RolePlayer:
		return true
	}
	return false
}

type Participant struct {
	ID            int             `json:"id" db:"id"`
	ParticipantID uuid.UUID       `json:"participant_id" db:"participant_id"`
	RoomID        int             `json:"room_id" db:"room_id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Role          ParticipantRole `json:"role" db:"role"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted 檢查參加者是否已離開房間
func (p *Participant) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsOrganizer 檢查參加者是否為主辦人
func (p *Participant) IsOrganizer() bool {
	return p.Role == RoleOrganizer
}

// JoinRoomRequest 加入房間請求
type JoinRoomRequest struct {
	Name string `json:"name" binding:"required"`
}
