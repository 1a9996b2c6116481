package ledger

import (
	"sync"

	"boxoffice/internal/model"
	apperrors "boxoffice/pkg/app_errors"

	"github.com/google/uuid"
)

// EventLedger 每一個活動座位計數的唯一權威。
// 計數異動以 per-event mutex 序列化，不同活動之間完全平行。
type EventLedger interface {
	Register(event *model.Event) error
	Get(eventID uuid.UUID) (*model.Event, error)
	List() []*model.Event
	// TryReserve 計算 granted = min(requested, available)，granted 為 0 時回傳
	// ErrInsufficientSeats，否則原子地把 held 加上 granted。
	// 這一步是防止超賣的唯一邊界。
	TryReserve(eventID uuid.UUID, requested int) (int, error)
	// Release 把 n 個座位從 held 歸還（過期/取消時使用）
	Release(eventID uuid.UUID, n int) error
	// Commit 把 n 個座位從 held 移到 booked（確認訂位時使用）
	Commit(eventID uuid.UUID, n int) error
	Snapshot(eventID uuid.UUID) (model.SeatCounts, error)
}

type eventEntry struct {
	mu    sync.Mutex
	event model.Event

	heldSeats   int
	bookedSeats int
}

type EventLedgerImpl struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*eventEntry
}

func NewEventLedger() EventLedger {
	return &EventLedgerImpl{
		events: make(map[uuid.UUID]*eventEntry),
	}
}

func (l *EventLedgerImpl) Register(event *model.Event) error {
	if event.TotalSeats <= 0 {
		return apperrors.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.events[event.ID]; ok {
		return apperrors.ErrInvalidInput
	}
	l.events[event.ID] = &eventEntry{event: *event}
	return nil
}

func (l *EventLedgerImpl) entry(eventID uuid.UUID) (*eventEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (l *EventLedgerImpl) Get(eventID uuid.UUID) (*model.Event, error) {
	e, err := l.entry(eventID)
	if err != nil {
		return nil, err
	}

	event := e.event
	return &event, nil
}

func (l *EventLedgerImpl) List() []*model.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := make([]*model.Event, 0, len(l.events))
	for _, e := range l.events {
		event := e.event
		events = append(events, &event)
	}
	return events
}

func (l *EventLedgerImpl) TryReserve(eventID uuid.UUID, requested int) (int, error) {
	if requested <= 0 {
		return 0, apperrors.ErrInvalidInput
	}

	e, err := l.entry(eventID)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	available := e.event.TotalSeats - e.heldSeats - e.bookedSeats
	if available <= 0 {
		return 0, apperrors.ErrInsufficientSeats
	}

	granted := requested
	if granted > available {
		// 部分滿足：給出剩餘全部而不是失敗
		granted = available
	}
	e.heldSeats += granted
	return granted, nil
}

func (l *EventLedgerImpl) Release(eventID uuid.UUID, n int) error {
	e, err := l.entry(eventID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if n < 0 || e.heldSeats-n < 0 {
		return apperrors.ErrInvariantViolation
	}
	e.heldSeats -= n
	return nil
}

func (l *EventLedgerImpl) Commit(eventID uuid.UUID, n int) error {
	e, err := l.entry(eventID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if n < 0 || e.heldSeats-n < 0 {
		return apperrors.ErrInvariantViolation
	}
	e.heldSeats -= n
	e.bookedSeats += n
	return nil
}

func (l *EventLedgerImpl) Snapshot(eventID uuid.UUID) (model.SeatCounts, error) {
	e, err := l.entry(eventID)
	if err != nil {
		return model.SeatCounts{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return model.SeatCounts{
		Total:     e.event.TotalSeats,
		Available: e.event.TotalSeats - e.heldSeats - e.bookedSeats,
		Held:      e.heldSeats,
		Booked:    e.bookedSeats,
	}, nil
}
