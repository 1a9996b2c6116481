package model

import (
	"time"

	"github.com/google/uuid"
)

// HoldStatus 持有狀態類型
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "ACTIVE"
	HoldStatusConfirmed HoldStatus = "CONFIRMED"
	HoldStatusExpired   HoldStatus = "EXPIRED"
	HoldStatusCancelled HoldStatus = "CANCELLED"
)

// IsValid 驗證狀態是否有效
func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusActive, HoldStatusConfirmed, HoldStatusExpired, HoldStatusCancelled:
		return true
	}
	return false
}

// IsTerminal 終態不可再轉換
func (s HoldStatus) IsTerminal() bool {
	return s == HoldStatusConfirmed || s == HoldStatusExpired || s == HoldStatusCancelled
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s HoldStatus) CanTransitionTo(target HoldStatus) bool {
	transitions := map[HoldStatus][]HoldStatus{
		HoldStatusActive:    {HoldStatusConfirmed, HoldStatusExpired, HoldStatusCancelled},
		HoldStatusConfirmed: {},
		HoldStatusExpired:   {},
		HoldStatusCancelled: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Hold 持有模型：對單一活動 N 個座位的限時暫留
type Hold struct {
	ID           uuid.UUID  `json:"id"`
	EventID      uuid.UUID  `json:"event_id"`
	SeatCount    int        `json:"seat_count"`
	Status       HoldStatus `json:"status"`
	PaymentToken string     `json:"payment_token"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// CreateHoldRequest 建立持有請求；TTLMinutes 為 0 時使用預設值
type CreateHoldRequest struct {
	EventID    uuid.UUID `json:"event_id" binding:"required"`
	Qty        int       `json:"qty" binding:"required,min=1"`
	TTLMinutes int       `json:"ttl_minutes"`
}

// HoldResponse 持有響應
type HoldResponse struct {
	HoldID       uuid.UUID `json:"hold_id"`
	EventID      uuid.UUID `json:"event_id"`
	Qty          int       `json:"qty"`
	Status       string    `json:"status"`
	PaymentToken string    `json:"payment_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewHoldResponse 由 Hold 組出響應
func NewHoldResponse(h *Hold) HoldResponse {
	return HoldResponse{
		HoldID:       h.ID,
		EventID:      h.EventID,
		Qty:          h.SeatCount,
		Status:       string(h.Status),
		PaymentToken: h.PaymentToken,
		ExpiresAt:    h.ExpiresAt,
	}
}
