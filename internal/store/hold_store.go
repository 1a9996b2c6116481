package store

import (
	"container/heap"
	"sync"
	"time"

	"boxoffice/internal/model"
	apperrors "boxoffice/pkg/app_errors"

	"github.com/google/uuid"
)

// HoldStore 行程內的 hold 儲存：id → 紀錄，外加一個依 expires_at 排序的
// 到期索引供 sweep 使用。每筆 hold 有自己的 entry lock，
// 座位搬移必須在 entry lock 內先於狀態變更完成，
// 讀取方才不會看到「狀態已 CONFIRMED 但座位還沒搬」的窗口。
type HoldStore interface {
	Put(hold *model.Hold) error
	Get(id uuid.UUID) (*model.Hold, error)
	// WithHold 取得該 hold 的 entry lock 後執行 fn；
	// Confirm/Cancel/Reclaim 對同一 hold 的競爭由這裡裁決，恰有一方獲勝
	WithHold(id uuid.UUID, fn func(h *model.Hold) error) error
	// ListActiveExpiringBefore 取出 expires_at <= t 且仍為 ACTIVE 的 hold id，
	// 已終態的紀錄不會出現
	ListActiveExpiringBefore(t time.Time) []uuid.UUID
	// RequeueExpiry 把仍為 ACTIVE 的 hold 放回到期索引。
	// heap 的 item 在 ListActiveExpiringBefore 就被取走了，
	// 回收失敗時呼叫這裡讓下一輪 sweep 重試
	RequeueExpiry(id uuid.UUID)
	CountByStatus(status model.HoldStatus) (holds int, seats int)

	PutBooking(booking *model.Booking) error
	GetBookingByHoldID(holdID uuid.UUID) (*model.Booking, error)
	CountBookings() (bookings int, seats int)
}

// Transition 依狀態機檢查後變更狀態，只允許前進的轉換。
// 呼叫端必須已持有該 hold 的 entry lock（WithHold 內）。
func Transition(h *model.Hold, target model.HoldStatus) error {
	if !h.Status.CanTransitionTo(target) {
		return apperrors.ErrInvalidStateTransition
	}
	h.Status = target
	return nil
}

type holdEntry struct {
	mu   sync.Mutex
	hold model.Hold
}

type expiryItem struct {
	expiresAt time.Time
	holdID    uuid.UUID
}

// expiryHeap 依 expiresAt 由小到大的 min-heap
type expiryHeap []expiryItem

func (h expiryHeap) Len() int            { return len(h) }
func (h expiryHeap) Less(i, j int) bool  { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x interface{}) { *h = append(*h, x.(expiryItem)) }
func (h *expiryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type HoldStoreImpl struct {
	mu       sync.RWMutex
	holds    map[uuid.UUID]*holdEntry
	bookings map[uuid.UUID]*model.Booking // keyed by hold id
	expiry   expiryHeap
}

func NewHoldStore() HoldStore {
	return &HoldStoreImpl{
		holds:    make(map[uuid.UUID]*holdEntry),
		bookings: make(map[uuid.UUID]*model.Booking),
	}
}

func (s *HoldStoreImpl) Put(hold *model.Hold) error {
	if !hold.Status.IsValid() {
		return apperrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.holds[hold.ID]; ok {
		return apperrors.ErrInvalidInput
	}
	s.holds[hold.ID] = &holdEntry{hold: *hold}
	if hold.Status == model.HoldStatusActive {
		heap.Push(&s.expiry, expiryItem{expiresAt: hold.ExpiresAt, holdID: hold.ID})
	}
	return nil
}

func (s *HoldStoreImpl) entry(id uuid.UUID) (*holdEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.holds[id]
	if !ok {
		return nil, apperrors.ErrHoldNotFound
	}
	return e, nil
}

func (s *HoldStoreImpl) Get(id uuid.UUID) (*model.Hold, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	hold := e.hold
	return &hold, nil
}

func (s *HoldStoreImpl) WithHold(id uuid.UUID, fn func(h *model.Hold) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(&e.hold)
}

func (s *HoldStoreImpl) ListActiveExpiringBefore(t time.Time) []uuid.UUID {
	s.mu.Lock()
	var candidates []*holdEntry
	for s.expiry.Len() > 0 && !s.expiry[0].expiresAt.After(t) {
		item := heap.Pop(&s.expiry).(expiryItem)
		if e, ok := s.holds[item.holdID]; ok {
			candidates = append(candidates, e)
		}
	}
	s.mu.Unlock()

	// 狀態過濾放在 store lock 之外做，避免和 WithHold 內的寫入路徑互等。
	// 已被 Confirm/Cancel 搶先的紀錄直接丟棄；留下的由呼叫端在 entry lock 下重查
	var due []uuid.UUID
	for _, e := range candidates {
		e.mu.Lock()
		if e.hold.Status == model.HoldStatusActive {
			due = append(due, e.hold.ID)
		}
		e.mu.Unlock()
	}
	return due
}

func (s *HoldStoreImpl) RequeueExpiry(id uuid.UUID) {
	e, err := s.entry(id)
	if err != nil {
		return
	}

	// entry lock 下讀快照，釋放後才碰 store lock，維持固定的鎖順序
	e.mu.Lock()
	status := e.hold.Status
	expiresAt := e.hold.ExpiresAt
	e.mu.Unlock()

	if status != model.HoldStatusActive {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	heap.Push(&s.expiry, expiryItem{expiresAt: expiresAt, holdID: id})
}

func (s *HoldStoreImpl) CountByStatus(status model.HoldStatus) (int, int) {
	s.mu.RLock()
	entries := make([]*holdEntry, 0, len(s.holds))
	for _, e := range s.holds {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	holds, seats := 0, 0
	for _, e := range entries {
		e.mu.Lock()
		if e.hold.Status == status {
			holds++
			seats += e.hold.SeatCount
		}
		e.mu.Unlock()
	}
	return holds, seats
}

func (s *HoldStoreImpl) PutBooking(booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.HoldID]; ok {
		return apperrors.ErrInvalidInput
	}
	s.bookings[booking.HoldID] = booking
	return nil
}

func (s *HoldStoreImpl) GetBookingByHoldID(holdID uuid.UUID) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[holdID]
	if !ok {
		return nil, apperrors.ErrHoldNotFound
	}
	booking := *b
	return &booking, nil
}

func (s *HoldStoreImpl) CountBookings() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings, seats := 0, 0
	for _, b := range s.bookings {
		bookings++
		seats += b.SeatCount
	}
	return bookings, seats
}
