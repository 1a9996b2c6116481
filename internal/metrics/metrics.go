package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Counter 名稱；每活動變體用 EventCounter 組出
const (
	EventsCreated   = "events_created"
	HoldsCreated    = "holds_created"
	BookingsCreated = "bookings_created"
	HoldsExpired    = "holds_expired"
	HoldsCancelled  = "holds_cancelled"
)

// EventCounter 組出單一活動的 counter 名稱，如 holds_created_event_<uuid>
func EventCounter(name string, eventID uuid.UUID) string {
	return fmt.Sprintf("%s_event_%s", name, eventID)
}

// AvailableSeatsGauge 單一活動剩餘座位 gauge 名稱
func AvailableSeatsGauge(eventID uuid.UUID) string {
	return fmt.Sprintf("available_seats_event_%s", eventID)
}

// Sink 接收核心發出的 counter/gauge；核心不自己格式化或曝露指標
type Sink interface {
	IncrCounter(ctx context.Context, name string, delta int64)
	SetGauge(ctx context.Context, name string, value int64)
	GetCounter(ctx context.Context, name string) (int64, error)
}

const (
	keyPrefix = "metric:"
	// counter 設 24h 過期避免無限成長
	counterTTL = 24 * time.Hour
)

type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) Sink {
	return &RedisSink{client: client}
}

func (s *RedisSink) key(name string) string {
	return keyPrefix + name
}

func (s *RedisSink) IncrCounter(ctx context.Context, name string, delta int64) {
	key := s.key(name)
	pipe := s.client.Pipeline()
	pipe.IncrBy(ctx, key, delta)
	pipe.Expire(ctx, key, counterTTL)
	_, _ = pipe.Exec(ctx)
}

func (s *RedisSink) SetGauge(ctx context.Context, name string, value int64) {
	_ = s.client.Set(ctx, s.key(name), value, 0).Err()
}

func (s *RedisSink) GetCounter(ctx context.Context, name string) (int64, error) {
	val, err := s.client.Get(ctx, s.key(name)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
