package queue_test

import (
	"context"
	"testing"
	"time"

	"boxoffice/internal/model"
	"boxoffice/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memory queue 不依賴 Redis，直接測發布到投遞的路徑

func TestArchiveQueue_PublishAndSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewArchiveQueue(4)

	record := &model.ArchiveRecord{
		Kind: model.ArchiveKindEvent,
		Event: &model.Event{
			ID:         uuid.New(),
			Name:       "Concert",
			TotalSeats: 10,
			CreatedAt:  time.Now().UTC(),
		},
	}
	require.NoError(t, q.PublishRecord(ctx, record))

	delCh, err := q.SubscribeRecords(ctx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		assert.Equal(t, model.ArchiveKindEvent, d.Data.Kind)
		assert.Equal(t, record.Event.ID, d.Data.Event.ID)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

func TestArchiveQueue_NackRequeue_redelivers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewArchiveQueue(4)

	record := &model.ArchiveRecord{
		Kind: model.ArchiveKindBooking,
		Booking: &model.Booking{
			ID:        uuid.New(),
			BookingID: model.NewBookingID(),
			EventID:   uuid.New(),
			HoldID:    uuid.New(),
			SeatCount: 1,
			CreatedAt: time.Now().UTC(),
		},
	}
	require.NoError(t, q.PublishRecord(ctx, record))

	delCh, err := q.SubscribeRecords(ctx)
	require.NoError(t, err)

	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		d.Nack(true)
	case <-ctx.Done():
		t.Fatal("timeout 未收到第一筆")
	}

	// requeue 後同一筆要再被投遞
	select {
	case d, ok := <-delCh:
		require.True(t, ok)
		require.NotNil(t, d.Data.Booking)
		assert.Equal(t, record.Booking.ID, d.Data.Booking.ID)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("timeout 未收到重試投遞")
	}
}

func TestArchiveQueue_CtxCancel_closesChannel(t *testing.T) {
	q := queue.NewArchiveQueue(4)

	subCtx, cancel := context.WithCancel(context.Background())
	delCh, err := q.SubscribeRecords(subCtx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-delCh:
		assert.False(t, ok, "context 取消後 channel 應關閉")
	case <-time.After(time.Second):
		t.Fatal("channel 未在時限內關閉")
	}
}
