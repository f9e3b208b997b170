package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mobispa/internal/availability"
	"mobispa/internal/civil"
	"mobispa/internal/db"
	"mobispa/internal/entities"
	"mobispa/internal/errors"
	"mobispa/internal/repository"
)

// cancelNotice is how far ahead of the start a booking may still be cancelled.
const cancelNotice = 12 * time.Hour

// BookingService creates and manages bookings. Before persisting anything it
// re-resolves availability and confirms the requested start is still
// offered, so a stale client view cannot double-book a slot.
type BookingService struct {
	Bookings     *repository.BookingRepository
	Availability *AvailabilityService
	Zone         *time.Location
}

func NewBookingService(bookings *repository.BookingRepository, avail *AvailabilityService, zone *time.Location) *BookingService {
	return &BookingService{Bookings: bookings, Availability: avail, Zone: zone}
}

// CreateBooking books a single session or, when the request carries a
// sessions array, an entire back-to-back chain under one group ID.
func (s *BookingService) CreateBooking(ctx context.Context, clientID string, req *entities.CreateBookingRequest) ([]entities.BookingResponse, error) {
	if req.ProviderID == "" || req.Date == "" || req.StartTime == "" {
		return nil, errors.ErrBadRequest("provider_id, date and start_time are required")
	}
	if len(req.Sessions) > 0 {
		return s.createChain(ctx, clientID, req)
	}
	return s.createSingle(ctx, clientID, req)
}

func (s *BookingService) createSingle(ctx context.Context, clientID string, req *entities.CreateBookingRequest) ([]entities.BookingResponse, error) {
	if req.DurationMinutes < 30 || req.DurationMinutes > 180 {
		return nil, errors.ErrBadRequest("Duration must be between 30 and 180 minutes")
	}

	spec := availability.Single(req.DurationMinutes)
	clientLocation := toEngineLocation(req.Location)
	slots, err := s.Availability.ResolveSlots(ctx, req.ProviderID, req.Date, spec, clientLocation, availability.Options{
		ProviderID: req.ProviderID,
	})
	if err != nil {
		return nil, err
	}
	if !slotOffered(slots, req.StartTime) {
		return nil, errors.ErrConflict("Requested time is no longer available")
	}

	booking, err := s.buildBooking(clientID, req, req.StartTime, req.DurationMinutes, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.CreateBookings([]*db.Booking{booking}); err != nil {
		log.Printf("Error creating booking: %v", err)
		return nil, fmt.Errorf("could not create booking: %w", err)
	}
	return []entities.BookingResponse{toBookingResponse(booking)}, nil
}

// createChain re-validates the whole chain at the requested start, then
// persists one booking per leg atomically. Legs run back-to-back; the final
// leg is stamped last-in-group and carries the extra departure buffer.
func (s *BookingService) createChain(ctx context.Context, clientID string, req *entities.CreateBookingRequest) ([]entities.BookingResponse, error) {
	durations := make([]int, len(req.Sessions))
	for i, session := range req.Sessions {
		if session.DurationMinutes < 30 || session.DurationMinutes > 180 {
			return nil, errors.ErrBadRequest("Each session must be between 30 and 180 minutes")
		}
		durations[i] = session.DurationMinutes
	}

	groupID := uuid.NewString()
	spec := availability.Chain(durations)
	clientLocation := toEngineLocation(req.Location)
	slots, err := s.Availability.ResolveSlots(ctx, req.ProviderID, req.Date, spec, clientLocation, availability.Options{
		ProviderID:           req.ProviderID,
		GroupID:              groupID,
		ExtraDepartureBuffer: req.ExtraDepartureBuffer,
	})
	if err != nil {
		return nil, err
	}
	if !slotOffered(slots, req.StartTime) {
		return nil, errors.ErrConflict("Requested time is no longer available")
	}

	startTime := req.StartTime
	bookings := make([]*db.Booking, 0, len(req.Sessions))
	for i, session := range req.Sessions {
		booking, err := s.buildBooking(clientID, req, startTime, session.DurationMinutes, session.Price)
		if err != nil {
			return nil, err
		}
		booking.GroupID = sql.NullString{String: groupID, Valid: true}
		if i == len(req.Sessions)-1 {
			booking.IsLastInGroup = true
			booking.ExtraDepartureBuffer = req.ExtraDepartureBuffer
		}
		bookings = append(bookings, booking)
		startTime = booking.EndTime // next leg starts where this one ends
	}

	if err := s.Bookings.CreateBookings(bookings); err != nil {
		log.Printf("Error creating session chain: %v", err)
		return nil, fmt.Errorf("could not create bookings: %w", err)
	}

	responses := make([]entities.BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = toBookingResponse(b)
	}
	return responses, nil
}

// buildBooking resolves the civil times for one booking row. End wall clock
// is start plus duration; both ends must resolve on the booking's civil day.
func (s *BookingService) buildBooking(clientID string, req *entities.CreateBookingRequest, startTime string, durationMinutes, price int) (*db.Booking, error) {
	start, err := civil.ToAbsolute(req.Date, startTime, s.Zone)
	if err != nil {
		return nil, errors.ErrBadRequest(fmt.Sprintf("invalid start time: %v", err))
	}
	endTime, err := addMinutes(startTime, durationMinutes)
	if err != nil {
		return nil, errors.ErrBadRequest(err.Error())
	}
	end, err := civil.ToAbsolute(req.Date, endTime, s.Zone)
	if err != nil {
		return nil, errors.ErrBadRequest(fmt.Sprintf("invalid end time: %v", err))
	}

	code := fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)
	return &db.Booking{
		ID:              uuid.NewString(),
		Code:            code,
		ClientID:        clientID,
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       startTime,
		EndTime:         endTime,
		StartUTC:        start.UTC,
		EndUTC:          end.UTC,
		DurationMinutes: durationMinutes,
		Status:          availability.StatusConfirmed,
		Address:         req.Location.Address,
		Lat:             req.Location.Lat,
		Lng:             req.Location.Lng,
		Price:           price,
	}, nil
}

func (s *BookingService) GetBooking(code string) (*entities.BookingResponse, error) {
	booking, err := s.Bookings.GetByCode(code)
	if err != nil {
		return nil, errors.ErrNotFound("Booking not found")
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *BookingService) ListClientBookings(clientID string) ([]entities.BookingResponse, error) {
	bookings, err := s.Bookings.ListByClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("could not list bookings: %w", err)
	}
	responses := make([]entities.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = toBookingResponse(&bookings[i])
	}
	return responses, nil
}

func (s *BookingService) CancelBooking(code, reason string) error {
	booking, err := s.Bookings.GetByCode(code)
	if err != nil {
		return errors.ErrNotFound("Booking not found")
	}
	if time.Until(booking.StartUTC) < cancelNotice {
		return errors.ErrConflict(fmt.Sprintf("Bookings can only be cancelled more than %d hours before the start time", int(cancelNotice.Hours())))
	}
	if _, err := s.Bookings.Cancel(code, reason); err != nil {
		log.Printf("Error cancelling booking %s: %v", code, err)
		return errors.ErrConflict("Booking could not be cancelled")
	}
	return nil
}

// slotOffered reports whether the requested wall-clock start is among the
// resolved slots.
func slotOffered(slots []availability.Slot, startTime string) bool {
	for _, slot := range slots {
		if slot.LocalStart == startTime {
			return true
		}
	}
	return false
}

// addMinutes advances an "HH:MM" wall clock, failing on day overflow.
func addMinutes(clock string, minutes int) (string, error) {
	t, err := time.Parse(civil.TimeLayout, clock)
	if err != nil {
		return "", fmt.Errorf("invalid time %q", clock)
	}
	total := t.Hour()*60 + t.Minute() + minutes
	if total >= 24*60 {
		return "", fmt.Errorf("session ending at %02d:%02d runs past midnight", total/60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func toEngineLocation(loc entities.LocationRequest) availability.Location {
	return availability.Location{Address: loc.Address, Lat: loc.Lat, Lng: loc.Lng}
}

func toBookingResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		Code:            b.Code,
		Date:            b.Date,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		StartUTC:        b.StartUTC,
		EndUTC:          b.EndUTC,
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		GroupID:         b.GroupID.String,
		Address:         b.Address,
		Price:           b.Price,
	}
}
