package services

import (
	"context"
	"time"

	"boxoffice/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *ReservationServiceMock) GetEvent(ctx context.Context, eventID uuid.UUID) (*model.EventResponse, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventResponse), args.Error(1)
}

func (m *ReservationServiceMock) ListEvents(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *ReservationServiceMock) CreateHold(ctx context.Context, req model.CreateHoldRequest) (*model.Hold, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Hold), args.Error(1)
}

func (m *ReservationServiceMock) GetHold(ctx context.Context, holdID uuid.UUID) (*model.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Hold), args.Error(1)
}

func (m *ReservationServiceMock) ConfirmBooking(ctx context.Context, holdID uuid.UUID, paymentToken string) (*model.Booking, error) {
	args := m.Called(ctx, holdID, paymentToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *ReservationServiceMock) CancelHold(ctx context.Context, holdID uuid.UUID) error {
	args := m.Called(ctx, holdID)
	return args.Error(0)
}

func (m *ReservationServiceMock) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *ReservationServiceMock) SystemMetrics(ctx context.Context) (*model.SystemMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SystemMetrics), args.Error(1)
}

func (m *ReservationServiceMock) EventMetrics(ctx context.Context, eventID uuid.UUID) (*model.EventMetrics, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventMetrics), args.Error(1)
}
