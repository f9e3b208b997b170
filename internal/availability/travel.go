package availability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Oracle supplies driving time in minutes between two locations for a given
// departure instant. Implementations may fail with ErrOracleUnavailable;
// retries, if any, belong to the implementation, not to slot validation.
type Oracle interface {
	TravelTime(ctx context.Context, origin, destination Location, departure time.Time) (int, error)
}

var (
	// ErrOracleUnavailable means a travel-time lookup failed or timed out.
	// The affected candidate is dropped; the request as a whole succeeds.
	ErrOracleUnavailable = errors.New("travel time unavailable")

	// ErrOutOfServiceArea means a required leg's destination falls outside
	// the provider's geofence.
	ErrOutOfServiceArea = errors.New("destination outside provider service area")

	// ErrTravelInfeasible means the provider cannot make a required leg with
	// the mandated arrival margin.
	ErrTravelInfeasible = errors.New("not enough travel time between bookings")
)

// arrivalMargin is how early the provider must arrive ahead of any session.
const arrivalMargin = 15 * time.Minute

// validateTravel confirms a single-session candidate is reachable: the
// provider must be able to leave the previous booking, wait out the buffer,
// drive to the client, and arrive at least arrivalMargin before the slot —
// and symmetrically reach the next booking afterwards. Oracle failures
// fail closed. Candidates with no adjacent booking pass trivially.
func validateTravel(ctx context.Context, oracle Oracle, slot Slot, prev, next *Booking, clientLocation Location, defaultBuffer int, allBookings []Booking, opts Options) error {
	if opts.ProviderID != "" && opts.Geofence != nil {
		if prev != nil && !opts.Geofence.Contains(clientLocation) {
			return ErrOutOfServiceArea
		}
		if next != nil && !opts.Geofence.Contains(next.Location) {
			return ErrOutOfServiceArea
		}
	}

	if prev != nil {
		departure := prev.End.Add(time.Duration(defaultBuffer) * time.Minute)
		minutes, err := oracle.TravelTime(ctx, prev.Location, clientLocation, departure)
		if err != nil {
			return fmt.Errorf("leg from previous booking: %w", err)
		}
		arrival := departure.Add(time.Duration(minutes) * time.Minute)
		if arrival.After(slot.Start.Add(-arrivalMargin)) {
			return fmt.Errorf("cannot arrive %s before start: %w", arrivalMargin, ErrTravelInfeasible)
		}
	}

	if next != nil {
		requested := &Booking{GroupID: opts.GroupID, Location: clientLocation}
		buffer := BufferBetween(requested, next, defaultBuffer, allBookings)
		departure := slot.End.Add(time.Duration(buffer) * time.Minute)
		minutes, err := oracle.TravelTime(ctx, clientLocation, next.Location, departure)
		if err != nil {
			return fmt.Errorf("leg to next booking: %w", err)
		}
		arrivalAtNext := departure.Add(time.Duration(minutes) * time.Minute)
		if arrivalAtNext.After(next.Start.Add(-arrivalMargin)) {
			return fmt.Errorf("cannot reach next booking %s before its start: %w", arrivalMargin, ErrTravelInfeasible)
		}
	}
	return nil
}
