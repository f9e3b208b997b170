package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"mobispa/internal/availability"
	"mobispa/internal/civil"
	"mobispa/internal/db"
	"mobispa/internal/errors"
	"mobispa/internal/repository"
)

// AvailabilityService owns provider work windows and slot resolution. It
// assembles the immutable snapshot (window + day bookings + provider
// profile) and hands it to the resolution engine; nothing here writes
// bookings.
type AvailabilityService struct {
	Blocks   *repository.AvailabilityRepository
	Bookings *repository.BookingRepository
	Users    repository.UserRepository
	Resolver *availability.Resolver

	Zone          *time.Location
	DefaultBuffer int
}

func NewAvailabilityService(
	blocks *repository.AvailabilityRepository,
	bookings *repository.BookingRepository,
	users repository.UserRepository,
	resolver *availability.Resolver,
	zone *time.Location,
	defaultBuffer int,
) *AvailabilityService {
	if defaultBuffer <= 0 {
		defaultBuffer = availability.DefaultBufferMinutes
	}
	return &AvailabilityService{
		Blocks:        blocks,
		Bookings:      bookings,
		Users:         users,
		Resolver:      resolver,
		Zone:          zone,
		DefaultBuffer: defaultBuffer,
	}
}

// ResolveSlots computes the offerable start times for a provider and date.
func (s *AvailabilityService) ResolveSlots(ctx context.Context, providerID, date string, spec availability.DurationSpec, clientLocation availability.Location, opts availability.Options) ([]availability.Slot, error) {
	block, err := s.Blocks.GetAutobookBlock(providerID, date)
	if err != nil {
		log.Printf("Error fetching availability block: %v", err)
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}
	if block == nil {
		return nil, errors.ErrNotFound("No availability found for the requested date")
	}

	window, err := s.buildWindow(block)
	if err != nil {
		return nil, err
	}

	dayBookings, err := s.Bookings.GetDayBookings(providerID, date)
	if err != nil {
		log.Printf("Error fetching day bookings: %v", err)
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}
	snapshot := make([]availability.Booking, 0, len(dayBookings))
	for i := range dayBookings {
		snapshot = append(snapshot, toEngineBooking(&dayBookings[i]))
	}

	buffer := s.DefaultBuffer
	if opts.ProviderID != "" {
		geofence, providerBuffer, err := s.providerSettings(opts.ProviderID)
		if err != nil {
			return nil, err
		}
		opts.Geofence = geofence
		if providerBuffer > 0 {
			buffer = providerBuffer
		}
	}

	return s.Resolver.Resolve(ctx, window, snapshot, spec, buffer, clientLocation, opts)
}

func (s *AvailabilityService) buildWindow(block *db.AvailabilityBlock) (availability.Window, error) {
	start, err := civil.ToAbsolute(block.Date, block.StartTime, s.Zone)
	if err != nil {
		return availability.Window{}, errors.ErrBadRequest(fmt.Sprintf("invalid window start: %v", err))
	}
	end, err := civil.ToAbsolute(block.Date, block.EndTime, s.Zone)
	if err != nil {
		return availability.Window{}, errors.ErrBadRequest(fmt.Sprintf("invalid window end: %v", err))
	}
	return availability.Window{
		ProviderID: block.ProviderID,
		Date:       block.Date,
		Start:      start,
		End:        end,
		Zone:       s.Zone,
	}, nil
}

// providerSettings loads the provider's geofence and buffer preference.
func (s *AvailabilityService) providerSettings(providerID string) (*availability.Geofence, int, error) {
	provider, err := s.Users.GetByID(providerID)
	if err != nil {
		return nil, 0, fmt.Errorf("error loading provider profile: %w", err)
	}
	if provider == nil {
		return nil, 0, errors.ErrNotFound("Provider not found")
	}

	var geofence *availability.Geofence
	if provider.ServiceAreaLat.Valid && provider.ServiceAreaLng.Valid && provider.ServiceAreaMiles.Valid {
		geofence = &availability.Geofence{
			Center: availability.Location{
				Lat: provider.ServiceAreaLat.Float64,
				Lng: provider.ServiceAreaLng.Float64,
			},
			RadiusMiles: provider.ServiceAreaMiles.Float64,
		}
	}
	buffer := 0
	if provider.BufferMinutes.Valid {
		buffer = int(provider.BufferMinutes.Int64)
	}
	return geofence, buffer, nil
}

// CreateBlock declares a provider work window after checking the window
// invariants: both ends must resolve on the block's civil day and end must
// come after start.
func (s *AvailabilityService) CreateBlock(providerID, date, startTime, endTime, blockType string) (*db.AvailabilityBlock, error) {
	if blockType != "autobook" && blockType != "unavailable" {
		return nil, errors.ErrBadRequest("type must be autobook or unavailable")
	}
	start, err := civil.ToAbsolute(date, startTime, s.Zone)
	if err != nil {
		return nil, errors.ErrBadRequest(fmt.Sprintf("invalid start time: %v", err))
	}
	end, err := civil.ToAbsolute(date, endTime, s.Zone)
	if err != nil {
		return nil, errors.ErrBadRequest(fmt.Sprintf("invalid end time: %v", err))
	}
	if !end.UTC.After(start.UTC) {
		return nil, errors.ErrBadRequest("end must be after start")
	}
	if !civil.SameCivilDay(start.UTC, end.UTC, s.Zone) {
		return nil, errors.ErrBadRequest("window must stay within one day")
	}

	block := &db.AvailabilityBlock{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Type:       blockType,
	}
	if err := s.Blocks.CreateBlock(block); err != nil {
		log.Printf("Error creating availability block: %v", err)
		return nil, fmt.Errorf("availability creation failed: %w", err)
	}
	return block, nil
}

func (s *AvailabilityService) ListBlocks(providerID, date string) ([]db.AvailabilityBlock, error) {
	return s.Blocks.ListBlocks(providerID, date)
}

func (s *AvailabilityService) DeleteBlock(id, providerID string) error {
	if err := s.Blocks.DeleteBlock(id, providerID); err != nil {
		return errors.NewHTTPError(http.StatusNotFound, "Availability not found")
	}
	return nil
}

// toEngineBooking maps a stored booking row to the engine's read-only view.
func toEngineBooking(b *db.Booking) availability.Booking {
	return availability.Booking{
		ID:                   b.ID,
		ProviderID:           b.ProviderID,
		ClientID:             b.ClientID,
		Date:                 b.Date,
		StartTime:            b.StartTime,
		EndTime:              b.EndTime,
		Start:                b.StartUTC,
		End:                  b.EndUTC,
		DurationMinutes:      b.DurationMinutes,
		Status:               b.Status,
		GroupID:              b.GroupID.String,
		IsLastInGroup:        b.IsLastInGroup,
		ExtraDepartureBuffer: b.ExtraDepartureBuffer,
		Location: availability.Location{
			Address: b.Address,
			Lat:     b.Lat,
			Lng:     b.Lng,
		},
	}
}
