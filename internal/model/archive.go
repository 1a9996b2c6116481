package model

// ArchiveKind 歷史紀錄種類
type ArchiveKind string

const (
	ArchiveKindEvent   ArchiveKind = "event"
	ArchiveKindHold    ArchiveKind = "hold"
	ArchiveKindBooking ArchiveKind = "booking"
)

// ArchiveRecord 送往歷史儲存的一筆紀錄；核心只管發出，持久化由 worker 處理
type ArchiveRecord struct {
	Kind    ArchiveKind
	Event   *Event
	Hold    *Hold
	Booking *Booking
}
