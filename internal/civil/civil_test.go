package civil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func TestToAbsolute_PlainTime(t *testing.T) {
	loc := losAngeles(t)

	got, err := ToAbsolute("2025-06-15", "10:00", loc)
	require.NoError(t, err)

	assert.Equal(t, 10, got.Wall.Hour())
	assert.Equal(t, 0, got.Wall.Minute())
	assert.True(t, got.DST)
	// PDT is UTC-7.
	assert.Equal(t, time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC), got.UTC)
}

func TestToAbsolute_SpringForwardGap(t *testing.T) {
	loc := losAngeles(t)

	// 02:30 on 2025-03-09 never happens in Los Angeles; clocks jump
	// from 02:00 to 03:00.
	_, err := ToAbsolute("2025-03-09", "02:30", loc)
	require.ErrorIs(t, err, ErrInvalidLocalTime)

	// The surrounding wall clocks are fine.
	_, err = ToAbsolute("2025-03-09", "01:30", loc)
	assert.NoError(t, err)
	_, err = ToAbsolute("2025-03-09", "03:00", loc)
	assert.NoError(t, err)
}

func TestToAbsolute_FallBackResolvesEarliest(t *testing.T) {
	loc := losAngeles(t)

	// 01:30 on 2025-11-02 happens twice: once in PDT (UTC-7), an hour
	// later again in PST (UTC-8). The earlier instant wins.
	got, err := ToAbsolute("2025-11-02", "01:30", loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 11, 2, 8, 30, 0, 0, time.UTC), got.UTC)
	assert.True(t, got.DST)
}

func TestToAbsolute_BadInput(t *testing.T) {
	loc := losAngeles(t)

	_, err := ToAbsolute("2025-13-40", "10:00", loc)
	assert.Error(t, err)
	_, err = ToAbsolute("2025-06-15", "25:99", loc)
	assert.Error(t, err)
	_, err = ToAbsolute("2025-06-15", "10:00", nil)
	assert.Error(t, err)
}

func TestSpansTransition(t *testing.T) {
	loc := losAngeles(t)

	// 01:30 PST on 2025-03-09 is 09:30 UTC; one hour later the offset
	// has changed.
	start := time.Date(2025, 3, 9, 9, 30, 0, 0, time.UTC)
	assert.True(t, SpansTransition(start, start.Add(time.Hour), loc))

	quiet := time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)
	assert.False(t, SpansTransition(quiet, quiet.Add(4*time.Hour), loc))
}

func TestSameCivilDay(t *testing.T) {
	loc := losAngeles(t)

	// 06:30 UTC on June 16 is still June 15 in Los Angeles.
	a := time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 16, 6, 30, 0, 0, time.UTC)
	assert.True(t, SameCivilDay(a, b, loc))
	assert.False(t, SameCivilDay(a, b.Add(time.Hour), loc))
}
