package availability

// BufferBetween computes the quiet minutes required between two adjacent
// bookings. Either side may be nil at the edges of the day. A synthetic
// booking carrying the requested group and location stands in for the
// booking being placed.
//
// Rules, in priority order: bookings in the same group at the same address
// need no gap; a booking flagged last in its group reserves the accumulated
// departure buffer for the whole group; everything else gets the default.
// Pure arithmetic, no I/O.
func BufferBetween(a, b *Booking, defaultBuffer int, allBookings []Booking) int {
	if a == nil || b == nil {
		return defaultBuffer
	}
	if a.GroupID != "" && b.GroupID != "" && a.GroupID == b.GroupID &&
		a.Location.Address == b.Location.Address {
		return 0
	}
	if a.GroupID != "" && a.IsLastInGroup && a.ExtraDepartureBuffer > 0 {
		groupSize := 0
		for i := range allBookings {
			if allBookings[i].GroupID == a.GroupID {
				groupSize++
			}
		}
		return defaultBuffer*groupSize + a.ExtraDepartureBuffer
	}
	return defaultBuffer
}
