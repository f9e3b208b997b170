package availability

import "time"

// RemoveOccupied drops candidates that overlap an existing booking once that
// booking's buffer is applied. Intervals are half-open: a slot
// [start, start+duration) conflicts with [bookingStart-buffer,
// bookingEnd+buffer) when start < occupiedEnd and slotEnd > occupiedStart.
// A candidate survives only if it clears every booking of the day.
func RemoveOccupied(slots []Slot, bookings []Booking, spec DurationSpec, defaultBuffer int, requestedGroupID string, clientLocation Location) []Slot {
	duration := time.Duration(spec.Longest()) * time.Minute
	requested := &Booking{GroupID: requestedGroupID, Location: clientLocation}

	var kept []Slot
	for _, s := range slots {
		slotEnd := s.Start.Add(duration)
		occupied := false
		for i := range bookings {
			b := &bookings[i]
			buffer := time.Duration(BufferBetween(requested, b, defaultBuffer, bookings)) * time.Minute
			occupiedStart := b.Start.Add(-buffer)
			occupiedEnd := b.End.Add(buffer)
			if s.Start.Before(occupiedEnd) && slotEnd.After(occupiedStart) {
				occupied = true
				break
			}
		}
		if !occupied {
			kept = append(kept, s)
		}
	}
	return kept
}
