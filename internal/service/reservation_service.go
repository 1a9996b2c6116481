package service

import (
	"context"
	"errors"
	"time"

	"boxoffice/internal/cache"
	"boxoffice/internal/clock"
	"boxoffice/internal/ledger"
	"boxoffice/internal/metrics"
	"boxoffice/internal/model"
	"boxoffice/internal/queue"
	"boxoffice/internal/store"
	apperrors "boxoffice/pkg/app_errors"
	"boxoffice/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TTLPolicy hold 存活時間的允許範圍；範圍外的請求直接拒絕而不是夾住
type TTLPolicy struct {
	Default time.Duration
	Min     time.Duration
	Max     time.Duration
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Default: 2 * time.Minute,
		Min:     1 * time.Minute,
		Max:     10 * time.Minute,
	}
}

type ReservationService interface {
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*model.EventResponse, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	// CreateHold 建立限時座位暫留；可用座位不足請求數時部分滿足，
	// 一張都給不出來才回傳 ErrInsufficientSeats
	CreateHold(ctx context.Context, req model.CreateHoldRequest) (*model.Hold, error)
	GetHold(ctx context.Context, holdID uuid.UUID) (*model.Hold, error)
	// ConfirmBooking 把仍然 ACTIVE 的 hold 轉為永久訂位；重複確認回傳同一筆 Booking
	ConfirmBooking(ctx context.Context, holdID uuid.UUID, paymentToken string) (*model.Booking, error)
	// CancelHold 取消 ACTIVE 的 hold 並歸還座位；已 CANCELLED 時為冪等 no-op
	CancelHold(ctx context.Context, holdID uuid.UUID) error
	// ReclaimExpired 掃描到期的 hold 並回收座位，回傳回收筆數
	ReclaimExpired(ctx context.Context, now time.Time) (int, error)
	SystemMetrics(ctx context.Context) (*model.SystemMetrics, error)
	EventMetrics(ctx context.Context, eventID uuid.UUID) (*model.EventMetrics, error)
}

type ReservationServiceImpl struct {
	ledger      ledger.EventLedger
	store       store.HoldStore
	clock       clock.Clock
	sink        metrics.Sink
	expiryCache cache.HoldExpiryCache
	archive     queue.ArchiveQueue
	ttl         TTLPolicy
	startedAt   time.Time
}

func NewReservationService(
	eventLedger ledger.EventLedger,
	holdStore store.HoldStore,
	clk clock.Clock,
	sink metrics.Sink,
	expiryCache cache.HoldExpiryCache,
	archive queue.ArchiveQueue,
	ttl TTLPolicy,
) ReservationService {
	return &ReservationServiceImpl{
		ledger:      eventLedger,
		store:       holdStore,
		clock:       clk,
		sink:        sink,
		expiryCache: expiryCache,
		archive:     archive,
		ttl:         ttl,
		startedAt:   clk.Now(),
	}
}

func (s *ReservationServiceImpl) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.TotalSeats < 1 || req.Name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	event := &model.Event{
		ID:         uuid.New(),
		Name:       req.Name,
		TotalSeats: req.TotalSeats,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.ledger.Register(event); err != nil {
		return nil, err
	}

	s.sink.IncrCounter(ctx, metrics.EventsCreated, 1)
	s.sink.SetGauge(ctx, metrics.AvailableSeatsGauge(event.ID), int64(event.TotalSeats))
	s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindEvent, Event: event})

	logger.WithComponent("service").Info("event created",
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name),
		zap.Int("total_seats", event.TotalSeats),
	)

	return event, nil
}

func (s *ReservationServiceImpl) GetEvent(ctx context.Context, eventID uuid.UUID) (*model.EventResponse, error) {
	event, err := s.ledger.Get(eventID)
	if err != nil {
		return nil, err
	}
	counts, err := s.ledger.Snapshot(eventID)
	if err != nil {
		return nil, err
	}

	return &model.EventResponse{
		ID:        event.ID,
		Name:      event.Name,
		Total:     counts.Total,
		Available: counts.Available,
		Held:      counts.Held,
		Booked:    counts.Booked,
		CreatedAt: event.CreatedAt,
	}, nil
}

func (s *ReservationServiceImpl) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return s.ledger.List(), nil
}

// resolveTTL 套用預設值並驗證範圍；範圍外回傳 ErrInvalidTTL
func (s *ReservationServiceImpl) resolveTTL(ttlMinutes int) (time.Duration, error) {
	if ttlMinutes == 0 {
		return s.ttl.Default, nil
	}
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttl < s.ttl.Min || ttl > s.ttl.Max {
		return 0, apperrors.ErrInvalidTTL
	}
	return ttl, nil
}

func (s *ReservationServiceImpl) CreateHold(ctx context.Context, req model.CreateHoldRequest) (*model.Hold, error) {
	if req.Qty < 1 {
		return nil, apperrors.ErrInvalidInput
	}
	ttl, err := s.resolveTTL(req.TTLMinutes)
	if err != nil {
		return nil, err
	}

	// check-and-reserve 是單一臨界區，超賣防線就在這一步
	granted, err := s.ledger.TryReserve(req.EventID, req.Qty)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	hold := &model.Hold{
		ID:           uuid.New(),
		EventID:      req.EventID,
		SeatCount:    granted,
		Status:       model.HoldStatusActive,
		PaymentToken: uuid.New().String(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.store.Put(hold); err != nil {
		// 寫入失敗必須歸還座位，否則容量會永久漏失
		if relErr := s.ledger.Release(req.EventID, granted); relErr != nil {
			logger.WithComponent("service").Error("release after failed put",
				zap.String("hold_id", hold.ID.String()), zap.Error(relErr))
		}
		return nil, apperrors.ErrInternalServerError
	}

	if err := s.expiryCache.SetHoldExpiry(ctx, hold.ID, ttl); err != nil {
		logger.WithComponent("service").Warn("set hold expiry shadow failed",
			zap.String("hold_id", hold.ID.String()), zap.Error(err))
	}

	s.sink.IncrCounter(ctx, metrics.HoldsCreated, 1)
	s.sink.IncrCounter(ctx, metrics.EventCounter(metrics.HoldsCreated, req.EventID), 1)
	s.publishAvailableGauge(ctx, req.EventID)
	s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindHold, Hold: hold})

	logger.WithComponent("service").Info("hold created",
		zap.String("hold_id", hold.ID.String()),
		zap.String("event_id", req.EventID.String()),
		zap.Int("requested", req.Qty),
		zap.Int("granted", granted),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	return hold, nil
}

func (s *ReservationServiceImpl) GetHold(ctx context.Context, holdID uuid.UUID) (*model.Hold, error) {
	return s.store.Get(holdID)
}

func (s *ReservationServiceImpl) ConfirmBooking(ctx context.Context, holdID uuid.UUID, paymentToken string) (*model.Booking, error) {
	var booking *model.Booking
	var expiredInPlace bool
	var eventID uuid.UUID

	err := s.store.WithHold(holdID, func(h *model.Hold) error {
		if h.PaymentToken != paymentToken {
			return apperrors.ErrInvalidInput
		}
		eventID = h.EventID

		switch h.Status {
		case model.HoldStatusConfirmed:
			// 冪等：回傳既有 Booking，不再動座位
			existing, err := s.store.GetBookingByHoldID(h.ID)
			if err != nil {
				return err
			}
			booking = existing
			return nil
		case model.HoldStatusExpired:
			// sweep 已搶先過期：回的是「已過期」而不是泛用的「非 ACTIVE」，
			// 和 confirm 路徑上就地過期的結果一致
			return apperrors.ErrHoldExpired
		case model.HoldStatusCancelled:
			return apperrors.ErrHoldNotActive
		}

		now := s.clock.Now()
		if !now.Before(h.ExpiresAt) {
			// lazy-expiry race：狀態還是 ACTIVE 但時間已到，就地過期而不是確認。
			// 座位先歸還，狀態後變更，外界不會看到中間態
			if err := s.ledger.Release(h.EventID, h.SeatCount); err != nil {
				return err
			}
			if err := store.Transition(h, model.HoldStatusExpired); err != nil {
				return err
			}
			expiredInPlace = true
			return apperrors.ErrHoldExpired
		}

		// 座位搬移先完成，CONFIRMED 狀態才會對外可見
		if err := s.ledger.Commit(h.EventID, h.SeatCount); err != nil {
			return err
		}

		b := &model.Booking{
			ID:        uuid.New(),
			BookingID: model.NewBookingID(),
			EventID:   h.EventID,
			HoldID:    h.ID,
			SeatCount: h.SeatCount,
			CreatedAt: now,
		}
		if err := s.store.PutBooking(b); err != nil {
			return err
		}
		if err := store.Transition(h, model.HoldStatusConfirmed); err != nil {
			return err
		}
		booking = b
		return nil
	})

	if expiredInPlace {
		s.afterExpiry(ctx, holdID, eventID, 1)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.WithComponent("service").Error("invariant violation during confirm",
				zap.String("hold_id", holdID.String()), zap.Error(err))
		}
		return nil, err
	}

	if err := s.expiryCache.ClearHoldExpiry(ctx, holdID); err != nil {
		logger.WithComponent("service").Warn("clear hold expiry shadow failed",
			zap.String("hold_id", holdID.String()), zap.Error(err))
	}

	s.sink.IncrCounter(ctx, metrics.BookingsCreated, 1)
	s.sink.IncrCounter(ctx, metrics.EventCounter(metrics.BookingsCreated, booking.EventID), 1)
	s.publishAvailableGauge(ctx, booking.EventID)
	if hold, err := s.store.Get(holdID); err == nil {
		s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindHold, Hold: hold})
	}
	s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindBooking, Booking: booking})

	logger.WithComponent("service").Info("booking confirmed",
		zap.String("booking_id", booking.BookingID),
		zap.String("hold_id", holdID.String()),
		zap.String("event_id", booking.EventID.String()),
		zap.Int("seats", booking.SeatCount),
	)

	return booking, nil
}

func (s *ReservationServiceImpl) CancelHold(ctx context.Context, holdID uuid.UUID) error {
	var cancelled bool
	var eventID uuid.UUID

	err := s.store.WithHold(holdID, func(h *model.Hold) error {
		eventID = h.EventID
		switch h.Status {
		case model.HoldStatusCancelled:
			return nil // 冪等 no-op
		case model.HoldStatusConfirmed, model.HoldStatusExpired:
			return apperrors.ErrHoldNotActive
		}

		if err := s.ledger.Release(h.EventID, h.SeatCount); err != nil {
			return err
		}
		if err := store.Transition(h, model.HoldStatusCancelled); err != nil {
			return err
		}
		cancelled = true
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.WithComponent("service").Error("invariant violation during cancel",
				zap.String("hold_id", holdID.String()), zap.Error(err))
		}
		return err
	}
	if !cancelled {
		return nil
	}

	if err := s.expiryCache.ClearHoldExpiry(ctx, holdID); err != nil {
		logger.WithComponent("service").Warn("clear hold expiry shadow failed",
			zap.String("hold_id", holdID.String()), zap.Error(err))
	}

	s.sink.IncrCounter(ctx, metrics.HoldsCancelled, 1)
	s.sink.IncrCounter(ctx, metrics.EventCounter(metrics.HoldsCancelled, eventID), 1)
	s.publishAvailableGauge(ctx, eventID)
	if hold, err := s.store.Get(holdID); err == nil {
		s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindHold, Hold: hold})
	}

	logger.WithComponent("service").Info("hold cancelled",
		zap.String("hold_id", holdID.String()),
		zap.String("event_id", eventID.String()),
	)

	return nil
}

func (s *ReservationServiceImpl) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	due := s.store.ListActiveExpiringBefore(now)
	if len(due) == 0 {
		return 0, nil
	}

	reclaimed := 0
	perEvent := make(map[uuid.UUID]int)

	for _, holdID := range due {
		var eventID uuid.UUID
		err := s.store.WithHold(holdID, func(h *model.Hold) error {
			// 重查：同一 hold 可能剛被 Confirm/Cancel 搶先，只能有一方獲勝
			if h.Status != model.HoldStatusActive || now.Before(h.ExpiresAt) {
				return nil
			}
			if err := s.ledger.Release(h.EventID, h.SeatCount); err != nil {
				return err
			}
			if err := store.Transition(h, model.HoldStatusExpired); err != nil {
				return err
			}
			eventID = h.EventID
			return nil
		})
		if err != nil {
			// heap item 已被取走，放回去讓下一輪 sweep 重試
			s.store.RequeueExpiry(holdID)
			logger.WithComponent("service").Error("reclaim failed",
				zap.String("hold_id", holdID.String()), zap.Error(err))
			continue
		}
		if eventID == uuid.Nil {
			continue // race loser, hold 已終態
		}

		reclaimed++
		perEvent[eventID]++
		if err := s.expiryCache.ClearHoldExpiry(ctx, holdID); err != nil {
			logger.WithComponent("service").Warn("clear hold expiry shadow failed",
				zap.String("hold_id", holdID.String()), zap.Error(err))
		}
		if hold, err := s.store.Get(holdID); err == nil {
			s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindHold, Hold: hold})
		}
	}

	for eventID, n := range perEvent {
		s.sink.IncrCounter(ctx, metrics.EventCounter(metrics.HoldsExpired, eventID), int64(n))
		s.publishAvailableGauge(ctx, eventID)
	}
	if reclaimed > 0 {
		s.sink.IncrCounter(ctx, metrics.HoldsExpired, int64(reclaimed))
		logger.WithComponent("service").Info("expired holds reclaimed", zap.Int("count", reclaimed))
	}

	return reclaimed, nil
}

func (s *ReservationServiceImpl) SystemMetrics(ctx context.Context) (*model.SystemMetrics, error) {
	events := s.ledger.List()
	activeHolds, heldSeats := s.store.CountByStatus(model.HoldStatusActive)
	_, bookedSeats := s.store.CountBookings()

	counters := make(map[string]int64)
	for _, name := range []string{
		metrics.EventsCreated, metrics.HoldsCreated, metrics.BookingsCreated,
		metrics.HoldsExpired, metrics.HoldsCancelled,
	} {
		val, err := s.sink.GetCounter(ctx, name)
		if err != nil {
			logger.WithComponent("service").Warn("read counter failed",
				zap.String("counter", name), zap.Error(err))
			continue
		}
		counters[name] = val
	}

	return &model.SystemMetrics{
		TotalEvents:      len(events),
		TotalActiveHolds: activeHolds,
		TotalHeldSeats:   heldSeats,
		TotalBookedSeats: bookedSeats,
		StartedAt:        s.startedAt,
		Counters:         counters,
	}, nil
}

func (s *ReservationServiceImpl) EventMetrics(ctx context.Context, eventID uuid.UUID) (*model.EventMetrics, error) {
	event, err := s.ledger.Get(eventID)
	if err != nil {
		return nil, err
	}
	counts, err := s.ledger.Snapshot(eventID)
	if err != nil {
		return nil, err
	}

	m := &model.EventMetrics{
		EventID:          eventID,
		EventName:        event.Name,
		TotalHeldSeats:   counts.Held,
		TotalBookedSeats: counts.Booked,
		AvailableSeats:   counts.Available,
	}
	m.TotalHolds, _ = s.sink.GetCounter(ctx, metrics.EventCounter(metrics.HoldsCreated, eventID))
	m.TotalBookings, _ = s.sink.GetCounter(ctx, metrics.EventCounter(metrics.BookingsCreated, eventID))
	m.TotalExpiries, _ = s.sink.GetCounter(ctx, metrics.EventCounter(metrics.HoldsExpired, eventID))
	return m, nil
}

// afterExpiry 處理 confirm 路徑上就地過期的 metrics 與側影清理
func (s *ReservationServiceImpl) afterExpiry(ctx context.Context, holdID, eventID uuid.UUID, n int64) {
	if err := s.expiryCache.ClearHoldExpiry(ctx, holdID); err != nil {
		logger.WithComponent("service").Warn("clear hold expiry shadow failed",
			zap.String("hold_id", holdID.String()), zap.Error(err))
	}
	s.sink.IncrCounter(ctx, metrics.HoldsExpired, n)
	s.sink.IncrCounter(ctx, metrics.EventCounter(metrics.HoldsExpired, eventID), n)
	s.publishAvailableGauge(ctx, eventID)
	if hold, err := s.store.Get(holdID); err == nil {
		s.publishArchive(ctx, &model.ArchiveRecord{Kind: model.ArchiveKindHold, Hold: hold})
	}
}

func (s *ReservationServiceImpl) publishAvailableGauge(ctx context.Context, eventID uuid.UUID) {
	counts, err := s.ledger.Snapshot(eventID)
	if err != nil {
		return
	}
	s.sink.SetGauge(ctx, metrics.AvailableSeatsGauge(eventID), int64(counts.Available))
}

// publishArchive 歷史紀錄遺失不影響請求結果，失敗只記 log
func (s *ReservationServiceImpl) publishArchive(ctx context.Context, record *model.ArchiveRecord) {
	if err := s.archive.PublishRecord(ctx, record); err != nil {
		logger.WithComponent("service").Warn("publish archive record failed", zap.Error(err))
	}
}
