package repository

import (
	"context"

	"boxoffice/internal/model"
	apperrors "boxoffice/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArchiveRepository 歷史紀錄的持久化邊界：核心只透過 worker 寫入，
// 不依賴這裡的任何讀取來做座位決策
type ArchiveRepository interface {
	EnsureSchema(ctx context.Context) error
	InsertEvent(ctx context.Context, event *model.Event) error
	// UpsertHold hold 每次狀態變更都會重送一份快照，以 id 覆寫
	UpsertHold(ctx context.Context, hold *model.Hold) error
	InsertBooking(ctx context.Context, booking *model.Booking) error
	FindBookingByHoldID(ctx context.Context, holdID uuid.UUID) (*model.Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error)
}

type ArchiveRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewArchiveRepository(pool *pgxpool.Pool) ArchiveRepository {
	return &ArchiveRepositoryImpl{
		pool: pool,
	}
}

func (r *ArchiveRepositoryImpl) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS events_archive (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			total_seats INT NOT NULL CHECK (total_seats > 0),
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS holds_archive (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL,
			seat_count INT NOT NULL CHECK (seat_count > 0),
			status TEXT NOT NULL,
			payment_token TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_holds_archive_event ON holds_archive (event_id, status);
		CREATE INDEX IF NOT EXISTS idx_holds_archive_expires ON holds_archive (status, expires_at);

		CREATE TABLE IF NOT EXISTS bookings_archive (
			id UUID PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			event_id UUID NOT NULL,
			hold_id UUID NOT NULL UNIQUE,
			seat_count INT NOT NULL CHECK (seat_count > 0),
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_archive_event ON bookings_archive (event_id);
	`

	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *ArchiveRepositoryImpl) InsertEvent(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events_archive (id, name, total_seats, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, event.ID, event.Name, event.TotalSeats, event.CreatedAt)
	return err
}

func (r *ArchiveRepositoryImpl) UpsertHold(ctx context.Context, hold *model.Hold) error {
	query := `
		INSERT INTO holds_archive (id, event_id, seat_count, status, payment_token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, archived_at = now()
	`

	_, err := r.pool.Exec(ctx, query,
		hold.ID, hold.EventID, hold.SeatCount, string(hold.Status),
		hold.PaymentToken, hold.CreatedAt, hold.ExpiresAt,
	)
	return err
}

func (r *ArchiveRepositoryImpl) InsertBooking(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings_archive (id, booking_id, event_id, hold_id, seat_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (hold_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		booking.ID, booking.BookingID, booking.EventID,
		booking.HoldID, booking.SeatCount, booking.CreatedAt,
	)
	return err
}

func (r *ArchiveRepositoryImpl) FindBookingByHoldID(ctx context.Context, holdID uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, booking_id, event_id, hold_id, seat_count, created_at
		FROM bookings_archive
		WHERE hold_id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, holdID).Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.EventID,
		&booking.HoldID,
		&booking.SeatCount,
		&booking.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrHoldNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func (r *ArchiveRepositoryImpl) ListBookingsByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, booking_id, event_id, hold_id, seat_count, created_at
		FROM bookings_archive
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)

	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.BookingID,
			&booking.EventID,
			&booking.HoldID,
			&booking.SeatCount,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
