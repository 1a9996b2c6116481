package model

import (
	"time"

	"github.com/google/uuid"
)

// EventMetrics 單一活動的統計
type EventMetrics struct {
	EventID          uuid.UUID `json:"event_id"`
	EventName        string    `json:"event_name"`
	TotalHolds       int64     `json:"total_holds"`
	TotalBookings    int64     `json:"total_bookings"`
	TotalExpiries    int64     `json:"total_expiries"`
	TotalHeldSeats   int       `json:"total_held_seats"`
	TotalBookedSeats int       `json:"total_booked_seats"`
	AvailableSeats   int       `json:"available_seats"`
}

// SystemMetrics 全系統統計快照
type SystemMetrics struct {
	TotalEvents      int              `json:"total_events"`
	TotalActiveHolds int              `json:"total_active_holds"`
	TotalHeldSeats   int              `json:"total_held_seats"`
	TotalBookedSeats int              `json:"total_booked_seats"`
	StartedAt        time.Time        `json:"started_at"`
	Counters         map[string]int64 `json:"counters"`
}
