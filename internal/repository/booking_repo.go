package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mobispa/internal/db"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `
	id, code, client_id, provider_id, date, start_time, end_time,
	start_utc, end_utc, duration_minutes, status,
	group_id, is_last_in_group, extra_departure_buffer,
	address, lat, lng, price, cancellation_reason, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.ClientID, &b.ProviderID, &b.Date, &b.StartTime, &b.EndTime,
		&b.StartUTC, &b.EndUTC, &b.DurationMinutes, &b.Status,
		&b.GroupID, &b.IsLastInGroup, &b.ExtraDepartureBuffer,
		&b.Address, &b.Lat, &b.Lng, &b.Price, &b.CancellationReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetDayBookings returns the provider's bookings for one civil date, sorted
// by start instant, excluding cancelled and completed entries. This is the
// snapshot the resolution engine reads.
func (r *BookingRepository) GetDayBookings(providerID, date string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE provider_id = $1 AND date = $2
		  AND status NOT IN ('cancelled', 'completed')
		ORDER BY start_utc`

	rows, err := r.DB.Query(query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("error querying day bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// CreateBookings inserts every booking in one transaction, so a multi-session
// chain is persisted atomically or not at all.
func (r *BookingRepository) CreateBookings(bookings []*db.Booking) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings
		(id, code, client_id, provider_id, date, start_time, end_time,
		 start_utc, end_utc, duration_minutes, status,
		 group_id, is_last_in_group, extra_departure_buffer,
		 address, lat, lng, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING created_at, updated_at`

	for _, b := range bookings {
		err := tx.QueryRow(query,
			b.ID, b.Code, b.ClientID, b.ProviderID, b.Date, b.StartTime, b.EndTime,
			b.StartUTC, b.EndUTC, b.DurationMinutes, b.Status,
			b.GroupID, b.IsLastInGroup, b.ExtraDepartureBuffer,
			b.Address, b.Lat, b.Lng, b.Price,
		).Scan(&b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error inserting booking %s: %w", b.Code, err)
		}
	}
	return tx.Commit()
}

func (r *BookingRepository) GetByCode(code string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1`
	b, err := scanBooking(r.DB.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) ListByClient(clientID string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings WHERE client_id = $1 ORDER BY start_utc DESC`

	rows, err := r.DB.Query(query, clientID)
	if err != nil {
		return nil, fmt.Errorf("error querying client bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) Cancel(code, reason string) (string, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancellation_reason = $2, updated_at = NOW()
		WHERE code = $1 AND status IN ('pending', 'confirmed')
		RETURNING status`
	var status string
	err := r.DB.QueryRow(query, code, reason).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("booking '%s' not found or not cancellable: %w", code, err)
		}
		return "", fmt.Errorf("error cancelling booking: %w", err)
	}
	return status, nil
}
