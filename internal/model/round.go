package model

import "time"

// RoundStatus 回合狀態
type RoundStatus string

const (
	RoundStatusOpen   RoundStatus = "open"
	RoundStatusClosed RoundStatus = "closed"
)

// Round 房間內的一個互動回合（快問快答等），只存在於 Redis，回合結束即清除
type Round struct {
	RoundID  string    `json:"round_id"`
	RoomID   int       `json:"-"`
	Question string    `json:"question"`
	Status   RoundStatus `json:"status"`
	OpenedAt time.Time `json:"opened_at"`
}

// OpenRoundRequest 開啟回合請求
type OpenRoundRequest struct {
	Question   string `json:"question" binding:"required"`
	TTLSeconds int    `json:"ttl_seconds" binding:"omitempty,min=1,max=86400"`
}

// SubmitEntryRequest 提交回合作答請求
type SubmitEntryRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// RoundResult 回合結算結果：參加者 public id 對應作答內容
type RoundResult struct {
	RoundID string            `json:"round_id"`
	Entries map[string]string `json:"entries"`
}
