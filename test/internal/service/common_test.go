package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"boxoffice/internal/clock"
	"boxoffice/internal/ledger"
	"boxoffice/internal/model"
	"boxoffice/internal/queue"
	"boxoffice/internal/service"
	"boxoffice/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// memorySink 行程內的 metrics.Sink，讓核心測試不需要 Redis
type memorySink struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]int64
}

func newMemorySink() *memorySink {
	return &memorySink{
		counters: make(map[string]int64),
		gauges:   make(map[string]int64),
	}
}

func (s *memorySink) IncrCounter(ctx context.Context, name string, delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] += delta
}

func (s *memorySink) SetGauge(ctx context.Context, name string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gauges[name] = value
}

func (s *memorySink) GetCounter(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name], nil
}

// memoryExpiryCache 行程內的 HoldExpiryCache 替身
type memoryExpiryCache struct {
	mu   sync.Mutex
	ttls map[uuid.UUID]time.Duration
}

func newMemoryExpiryCache() *memoryExpiryCache {
	return &memoryExpiryCache{ttls: make(map[uuid.UUID]time.Duration)}
}

func (c *memoryExpiryCache) SetHoldExpiry(ctx context.Context, holdID uuid.UUID, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[holdID] = ttl
	return nil
}

func (c *memoryExpiryCache) ClearHoldExpiry(ctx context.Context, holdID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ttls, holdID)
	return nil
}

func (c *memoryExpiryCache) GetHoldTTL(ctx context.Context, holdID uuid.UUID) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[holdID], nil
}

// stepClock 可手動推進的時鐘
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(t time.Time) *stepClock {
	return &stepClock{now: t.UTC()}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	service service.ReservationService
	sink    *memorySink
	cache   *memoryExpiryCache
	clock   *stepClock
}

// newTestEnv 組出一個不依賴外部服務的 ReservationService：
// 真實的 ledger/store + in-memory 替身 + 背景 drain 掉的 archive queue
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clk := newStepClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sink := newMemorySink()
	expiryCache := newMemoryExpiryCache()

	archiveQueue := queue.NewArchiveQueue(64)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// 把歷史紀錄 drain 掉，避免 buffer 滿了堵住發送端
	deliveries, err := archiveQueue.SubscribeRecords(ctx)
	require.NoError(t, err)
	go func() {
		for d := range deliveries {
			d.Ack()
		}
	}()

	svc := service.NewReservationService(
		ledger.NewEventLedger(),
		store.NewHoldStore(),
		clk,
		sink,
		expiryCache,
		archiveQueue,
		service.DefaultTTLPolicy(),
	)

	return &testEnv{
		service: svc,
		sink:    sink,
		cache:   expiryCache,
		clock:   clk,
	}
}

func createTestEvent(t *testing.T, env *testEnv, name string, totalSeats int) uuid.UUID {
	t.Helper()

	event, err := env.service.CreateEvent(context.Background(), model.CreateEventRequest{
		Name:       name,
		TotalSeats: totalSeats,
	})
	require.NoError(t, err)
	return event.ID
}

func createTestHold(t *testing.T, env *testEnv, eventID uuid.UUID, qty int) *model.Hold {
	t.Helper()

	hold, err := env.service.CreateHold(context.Background(), model.CreateHoldRequest{
		EventID: eventID,
		Qty:     qty,
	})
	require.NoError(t, err)
	return hold
}

var _ clock.Clock = (*stepClock)(nil)
