package availability

import (
	"context"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobispa/internal/civil"
)

// jitterOracle answers after a random delay so verdicts arrive out of
// order; the resolver must still return candidates sorted by start.
type jitterOracle struct {
	minutes int
}

func (j *jitterOracle) TravelTime(ctx context.Context, origin, destination Location, departure time.Time) (int, error) {
	time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	return j.minutes, nil
}

func engineBooking(t *testing.T, date, start, end, id string, loc Location) Booking {
	t.Helper()
	zone := losAngeles(t)
	s, err := civil.ToAbsolute(date, start, zone)
	require.NoError(t, err)
	e, err := civil.ToAbsolute(date, end, zone)
	require.NoError(t, err)
	return Booking{
		ID: id, Date: date, StartTime: start, EndTime: end,
		Start: s.UTC, End: e.UTC, Status: StatusConfirmed, Location: loc,
	}
}

func TestResolve_EmptyDayOffersWholeWindow(t *testing.T) {
	r := NewResolver(&fakeOracle{minutes: 10})
	w := testWindow(t, "2025-06-15", "09:00", "17:00")

	slots, err := r.Resolve(context.Background(), w, nil, Single(60), 15, Location{}, Options{})
	require.NoError(t, err)
	require.Len(t, slots, 15)
	assert.Equal(t, "09:00", slots[0].LocalStart)
	assert.Equal(t, "16:00", slots[14].LocalStart)
}

func TestResolve_InvalidInput(t *testing.T) {
	r := NewResolver(&fakeOracle{})
	w := testWindow(t, "2025-06-15", "09:00", "17:00")

	_, err := r.Resolve(context.Background(), w, nil, Single(0), 15, Location{}, Options{})
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), Window{}, nil, Single(60), 15, Location{}, Options{})
	assert.Error(t, err)
}

func TestResolve_ResultsStayOrdered(t *testing.T) {
	r := NewResolver(&jitterOracle{minutes: 5})
	r.Workers = 3
	w := testWindow(t, "2025-06-15", "09:00", "17:00")

	booked := []Booking{
		engineBooking(t, "2025-06-15", "12:00", "13:00", "b1", Location{Address: "98 Hill St"}),
	}

	slots, err := r.Resolve(context.Background(), w, booked, Single(60), 15, Location{Address: "12 Ocean Ave"}, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.True(t, sort.SliceIsSorted(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	}))
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewResolver(&fakeOracle{minutes: 10})
	w := testWindow(t, "2025-06-15", "09:00", "17:00")
	booked := []Booking{
		engineBooking(t, "2025-06-15", "12:00", "13:00", "b1", Location{}),
	}

	first, err := r.Resolve(context.Background(), w, booked, Single(60), 15, Location{}, Options{})
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), w, booked, Single(60), 15, Location{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_OracleOutageDropsOnlyNeighboredSlots(t *testing.T) {
	r := NewResolver(&fakeOracle{err: ErrOracleUnavailable})
	w := testWindow(t, "2025-06-15", "09:00", "17:00")

	// One booking mid-day. Every candidate has it as previous or next,
	// so a dead oracle empties the day rather than guessing.
	booked := []Booking{
		engineBooking(t, "2025-06-15", "12:00", "13:00", "b1", Location{}),
	}

	slots, err := r.Resolve(context.Background(), w, booked, Single(60), 15, Location{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Without bookings there are no travel legs and the outage is moot.
	slots, err = r.Resolve(context.Background(), w, nil, Single(60), 15, Location{}, Options{})
	require.NoError(t, err)
	assert.Len(t, slots, 15)
}

func TestResolve_ChainCandidates(t *testing.T) {
	r := NewResolver(&fakeOracle{minutes: 10})
	w := testWindow(t, "2025-06-15", "09:00", "22:00")

	// 240+60 minute chain plus a 15 minute departure buffer must finish
	// before 22:00, so the last workable start is 16:30.
	slots, err := r.Resolve(context.Background(), w, nil, Chain([]int{240, 60}), 15, Location{}, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].LocalStart)
	assert.Equal(t, "16:30", slots[len(slots)-1].LocalStart)
}

func TestNeighbors(t *testing.T) {
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	booked := []Booking{
		{ID: "b1", Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
		{ID: "b2", Start: day.Add(14 * time.Hour), End: day.Add(15 * time.Hour)},
	}
	slots := []Slot{
		slotAt(day.Add(8*time.Hour), 60),
		slotAt(day.Add(10*time.Hour), 60),
		slotAt(day.Add(12*time.Hour), 60),
		slotAt(day.Add(16*time.Hour), 60),
	}

	prevs, nexts := neighbors(slots, booked)

	assert.Nil(t, prevs[0])
	assert.Equal(t, "b1", nexts[0].ID)

	assert.Equal(t, "b1", prevs[1].ID)
	assert.Equal(t, "b2", nexts[1].ID)

	assert.Equal(t, "b1", prevs[2].ID)
	assert.Equal(t, "b2", nexts[2].ID)

	assert.Equal(t, "b2", prevs[3].ID)
	assert.Nil(t, nexts[3])
}
