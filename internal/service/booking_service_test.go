package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobispa/internal/availability"
	"mobispa/internal/db"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
	"mobispa/internal/repository"
)

func bookingFixture(t *testing.T, buffer int64) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	zone, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	provider := &db.User{
		ID:          "prov-1",
		AccountType: "PROVIDER",
	}
	if buffer > 0 {
		provider.BufferMinutes = sql.NullInt64{Int64: buffer, Valid: true}
	}
	avail := NewAvailabilityService(
		repository.NewAvailabilityRepository(database),
		repository.NewBookingRepository(database),
		&stubUsers{user: provider},
		availability.NewResolver(&fixedOracle{minutes: 10}),
		zone,
		15,
	)
	return NewBookingService(repository.NewBookingRepository(database), avail, zone), mock
}

func storedBookingRow(code string, start time.Time) []driver.Value {
	return []driver.Value{
		"b1", code, "client-1", "prov-1", start.Format("2006-01-02"), "10:00", "11:00",
		start, start.Add(time.Hour), 60, "confirmed",
		nil, false, 0,
		"12 Ocean Ave", 34.05, -118.24, 12000, nil, time.Now(), time.Now(),
	}
}

var storedBookingCols = []string{
	"id", "code", "client_id", "provider_id", "date", "start_time", "end_time",
	"start_utc", "end_utc", "duration_minutes", "status",
	"group_id", "is_last_in_group", "extra_departure_buffer",
	"address", "lat", "lng", "price", "cancellation_reason", "created_at", "updated_at",
}

func TestCreateBooking_RequiredFields(t *testing.T) {
	svc, _ := bookingFixture(t, 0)

	_, err := svc.CreateBooking(context.Background(), "client-1", &entities.CreateBookingRequest{})
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestCreateBooking_DurationOutOfRange(t *testing.T) {
	svc, _ := bookingFixture(t, 0)

	req := &entities.CreateBookingRequest{
		ProviderID:      "prov-1",
		Date:            "2025-06-15",
		StartTime:       "10:00",
		DurationMinutes: 20,
	}
	_, err := svc.CreateBooking(context.Background(), "client-1", req)
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestCreateBooking_SingleSession(t *testing.T) {
	svc, mock := bookingFixture(t, 0)
	expectBlock(mock, "09:00", "17:00")
	expectEmptyDay(mock)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	req := &entities.CreateBookingRequest{
		ProviderID:      "prov-1",
		Date:            "2025-06-15",
		StartTime:       "10:00",
		DurationMinutes: 60,
		Price:           12000,
		Location:        entities.LocationRequest{Address: "12 Ocean Ave", Lat: 34.05, Lng: -118.24},
	}
	responses, err := svc.CreateBooking(context.Background(), "client-1", req)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "10:00", responses[0].StartTime)
	assert.Equal(t, "11:00", responses[0].EndTime)
	assert.Equal(t, availability.StatusConfirmed, responses[0].Status)
	assert.Len(t, responses[0].Code, 8)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SlotNoLongerOffered(t *testing.T) {
	svc, mock := bookingFixture(t, 0)
	expectBlock(mock, "09:00", "17:00")
	expectEmptyDay(mock)

	req := &entities.CreateBookingRequest{
		ProviderID:      "prov-1",
		Date:            "2025-06-15",
		StartTime:       "18:00", // outside the declared window
		DurationMinutes: 60,
	}
	_, err := svc.CreateBooking(context.Background(), "client-1", req)
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)
}

func TestCreateBooking_ChainStampsGroupAndFinalLeg(t *testing.T) {
	svc, mock := bookingFixture(t, 0)
	expectBlock(mock, "09:00", "17:00")
	expectEmptyDay(mock)

	created := sqlmock.NewRows([]string{"created_at", "updated_at"})
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), "client-1", "prov-1", "2025-06-15", "10:00", "11:00",
			sqlmock.AnyArg(), sqlmock.AnyArg(), 60, "confirmed",
			sqlmock.AnyArg(), false, 0,
			"12 Ocean Ave", 34.05, -118.24, 9000,
		).
		WillReturnRows(created.AddRow(now, now))
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), "client-1", "prov-1", "2025-06-15", "11:00", "12:30",
			sqlmock.AnyArg(), sqlmock.AnyArg(), 90, "confirmed",
			sqlmock.AnyArg(), true, 30,
			"12 Ocean Ave", 34.05, -118.24, 13000,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	req := &entities.CreateBookingRequest{
		ProviderID: "prov-1",
		Date:       "2025-06-15",
		StartTime:  "10:00",
		Location:   entities.LocationRequest{Address: "12 Ocean Ave", Lat: 34.05, Lng: -118.24},
		Sessions: []entities.SessionRequest{
			{DurationMinutes: 60, Price: 9000},
			{DurationMinutes: 90, Price: 13000},
		},
		ExtraDepartureBuffer: 30,
	}
	responses, err := svc.CreateBooking(context.Background(), "client-1", req)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, responses[0].GroupID, responses[1].GroupID)
	assert.NotEmpty(t, responses[0].GroupID)
	assert.Equal(t, "11:00", responses[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_NoticeWindow(t *testing.T) {
	svc, mock := bookingFixture(t, 0)

	// Starting in two hours: inside the notice window, cannot cancel.
	soon := time.Now().Add(2 * time.Hour)
	mock.ExpectQuery("SELECT(.|\n)+FROM bookings WHERE code").
		WillReturnRows(sqlmock.NewRows(storedBookingCols).AddRow(storedBookingRow("AAAA1111", soon)...))

	err := svc.CancelBooking("AAAA1111", "change of plans")
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.Code)

	// Two days out is fine.
	later := time.Now().Add(48 * time.Hour)
	mock.ExpectQuery("SELECT(.|\n)+FROM bookings WHERE code").
		WillReturnRows(sqlmock.NewRows(storedBookingCols).AddRow(storedBookingRow("AAAA1111", later)...))
	mock.ExpectQuery("UPDATE bookings(.|\n)+SET status = 'cancelled'").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("cancelled"))

	assert.NoError(t, svc.CancelBooking("AAAA1111", "change of plans"))
}

func TestAddMinutes(t *testing.T) {
	end, err := addMinutes("10:00", 90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", end)

	_, err = addMinutes("23:30", 60)
	assert.Error(t, err)

	_, err = addMinutes("not a clock", 60)
	assert.Error(t, err)
}

func TestSlotOffered(t *testing.T) {
	slots := []availability.Slot{{LocalStart: "09:00"}, {LocalStart: "09:30"}}
	assert.True(t, slotOffered(slots, "09:30"))
	assert.False(t, slotOffered(slots, "10:00"))
}
