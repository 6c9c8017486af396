package model

import (
	"time"

	"github.com/google/uuid"
)

// Prize 獎項模型
type Prize struct {
	ID                int        `json:"id" db:"id"`
	PrizeID           uuid.UUID  `json:"prize_id" db:"prize_id"`
	RoomID            int        `json:"room_id" db:"room_id"`
	Name              string     `json:"name" db:"name"`
	Description       *string    `json:"description,omitempty" db:"description"`
	Quantity          int        `json:"quantity" db:"quantity"`
	QuantityRemaining int        `json:"quantity_remaining" db:"quantity_remaining"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted 檢查獎項是否已刪除
func (p *Prize) IsDeleted() bool {
	return p.DeletedAt != nil
}

// IsAvailable 檢查獎項是否還能被抽中
func (p *Prize) IsAvailable() bool {
	return !p.IsDeleted() && p.QuantityRemaining > 0
}

// Awarded 已發出的數量
func (p *Prize) Awarded() int {
	return p.Quantity - p.QuantityRemaining
}

type UpdatePrizeParams struct {
	Name        *string
	Description *string
}

// CreatePrizeRequest 建立獎項請求
type CreatePrizeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
}

// UpdatePrizeRequest 更新獎項請求；Quantity 會觸發剩餘數量重算
type UpdatePrizeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
}
