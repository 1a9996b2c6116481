package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking 訂位模型：由單一 confirmed Hold 導出的永久座位配置
type Booking struct {
	ID        uuid.UUID `json:"id"`
	BookingID string    `json:"booking_id"`
	EventID   uuid.UUID `json:"event_id"`
	HoldID    uuid.UUID `json:"hold_id"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingID 產生對外的訂位編號，格式 BK-XXXXXXXX
func NewBookingID() string {
	return fmt.Sprintf("BK-%s", strings.ToUpper(uuid.New().String()[:8]))
}

// ConfirmBookingRequest 確認訂位請求
type ConfirmBookingRequest struct {
	HoldID       uuid.UUID `json:"hold_id" binding:"required"`
	PaymentToken string    `json:"payment_token" binding:"required"`
}

// BookingResponse 訂位響應
type BookingResponse struct {
	BookingID string    `json:"booking_id"`
	EventID   uuid.UUID `json:"event_id"`
	HoldID    uuid.UUID `json:"hold_id"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}
