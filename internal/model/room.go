package model

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID          int        `json:"id" db:"id"`
	RoomID      uuid.UUID  `json:"room_id" db:"room_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted 檢查房間是否已關閉
func (r *Room) IsDeleted() bool {
	return r.DeletedAt != nil
}

type UpdateRoomParams struct {
	Name        *string
	Description *string
}
