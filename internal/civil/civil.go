package civil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidLocalTime reports a wall clock that does not exist in the target
// timezone because a spring-forward transition skipped over it.
var ErrInvalidLocalTime = errors.New("local time does not exist in this timezone")

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Instant is a wall-clock date+time resolved against one civil timezone.
type Instant struct {
	Wall time.Time // carries the civil zone
	UTC  time.Time
	DST  bool
}

// ToAbsolute resolves a civil date ("2006-01-02") and wall clock ("15:04")
// in loc to an absolute instant. A wall clock inside a spring-forward gap
// fails with ErrInvalidLocalTime rather than normalizing. An ambiguous
// fall-back wall clock resolves to the earliest of the two instants.
// Resolution depends only on the arguments, never on process-wide zone state.
func ToAbsolute(date, clock string, loc *time.Location) (Instant, error) {
	if loc == nil {
		return Instant{}, errors.New("nil location")
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return Instant{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	hm, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return Instant{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	h, m := hm.Hour(), hm.Minute()

	t := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
	if t.Hour() != h || t.Minute() != m {
		// time.Date normalized the wall clock away: spring-forward gap.
		return Instant{}, fmt.Errorf("%s %s in %s: %w", date, clock, loc, ErrInvalidLocalTime)
	}
	// Fall-back overlap: the same wall clock recurs one hour apart. If the
	// instant one hour earlier shows the same wall clock, it is the earlier
	// of the two and wins.
	if alt := t.Add(-time.Hour); sameWall(alt.In(loc), day, h, m) {
		t = alt.In(loc)
	}
	return Instant{Wall: t, UTC: t.UTC(), DST: t.IsDST()}, nil
}

func sameWall(t, day time.Time, h, m int) bool {
	return t.Year() == day.Year() && t.Month() == day.Month() && t.Day() == day.Day() &&
		t.Hour() == h && t.Minute() == m
}

// SpansTransition reports whether the UTC offset in effect at start differs
// from the offset at end, i.e. the interval crosses a DST boundary in loc.
func SpansTransition(start, end time.Time, loc *time.Location) bool {
	_, offStart := start.In(loc).Zone()
	_, offEnd := end.In(loc).Zone()
	return offStart != offEnd
}

// SameCivilDay reports whether two instants fall on the same calendar day in loc.
func SameCivilDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
