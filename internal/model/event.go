package model

import (
	"time"

	"github.com/google/uuid"
)

// Event 活動模型：座位容量的計費單位
type Event struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TotalSeats int       `json:"total_seats"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeatCounts 活動座位計數快照（held/booked 由 ledger 維護，available 為導出值）
type SeatCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Name       string `json:"name" binding:"required"`
	TotalSeats int    `json:"total_seats" binding:"required,min=1"`
}

// EventResponse 活動詳情響應（含座位計數）
type EventResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Total     int       `json:"total"`
	Available int       `json:"available"`
	Held      int       `json:"held"`
	Booked    int       `json:"booked"`
	CreatedAt time.Time `json:"created_at"`
}
