package availability

import (
	"time"

	"mobispa/internal/civil"
)

// SlotInterval is the spacing between candidate starts. Appointments are
// offered on the half hour.
const SlotInterval = 30 * time.Minute

// GenerateSlots enumerates candidate starts inside the work window, stepping
// by SlotInterval while a session of the longest requested duration still
// fits before the window closes. Candidates whose session would cross a DST
// transition are skipped rather than silently shortened or stretched.
// Output ascends by start time; a window too short for the duration yields
// an empty result, not an error.
func GenerateSlots(w Window, spec DurationSpec) []Slot {
	if w.End.Wall.Sub(w.Start.Wall) < SlotInterval {
		return nil
	}
	longest := time.Duration(spec.Longest()) * time.Minute

	var slots []Slot
	for cur := w.Start.Wall; !cur.Add(longest).After(w.End.Wall); cur = cur.Add(SlotInterval) {
		end := cur.Add(longest)
		if civil.SpansTransition(cur, end, w.Zone) {
			continue
		}
		local := cur.In(w.Zone)
		slots = append(slots, Slot{
			Start:      cur.UTC(),
			End:        end.UTC(),
			LocalStart: local.Format(civil.TimeLayout),
			LocalEnd:   end.In(w.Zone).Format(civil.TimeLayout),
			DST:        local.IsDST(),
		})
	}
	return slots
}
