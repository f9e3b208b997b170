package availability

import (
	"errors"
	"fmt"
	"time"

	"mobispa/internal/civil"
)

// Booking statuses. Cancelled and completed bookings never count for
// conflict purposes; the repository filters them out of day snapshots.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Location is a street address with coordinates.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Booking is the engine's read-only view of an existing appointment. The
// engine receives a snapshot per resolution request and never mutates it.
type Booking struct {
	ID                   string
	ProviderID           string
	ClientID             string
	Date                 string // civil date, "2006-01-02"
	StartTime            string // wall clock, "15:04"
	EndTime              string
	Start                time.Time // resolved absolute instant
	End                  time.Time
	DurationMinutes      int
	Status               string
	GroupID              string
	IsLastInGroup        bool
	ExtraDepartureBuffer int
	Location             Location
}

// Window is one provider work window on one civil day.
type Window struct {
	ProviderID string
	Date       string
	Start      civil.Instant
	End        civil.Instant
	Zone       *time.Location
}

func (w Window) validate() error {
	if w.Zone == nil {
		return errors.New("window has no timezone")
	}
	if !w.End.UTC.After(w.Start.UTC) {
		return errors.New("window end must be after window start")
	}
	if !civil.SameCivilDay(w.Start.UTC, w.End.UTC, w.Zone) {
		return errors.New("window start and end must fall on the same civil day")
	}
	return nil
}

// Slot is a candidate start at which a new booking (or chain) could begin.
// Slots are produced in ascending start order and never mutated; the
// pipeline only keeps or discards them.
type Slot struct {
	Start      time.Time `json:"start"` // UTC
	End        time.Time `json:"end"`   // UTC, start + longest requested duration
	LocalStart string    `json:"local_start"`
	LocalEnd   string    `json:"local_end"`
	DST        bool      `json:"dst"`
}

// DurationSpec is either a single session length or an ordered chain of
// session lengths, in minutes. The closed variant replaces the loose
// number-or-array polymorphism this engine's callers used to rely on.
type DurationSpec struct {
	chain     bool
	durations []int
}

// Single describes one session of the given length.
func Single(minutes int) DurationSpec {
	return DurationSpec{durations: []int{minutes}}
}

// Chain describes an ordered multi-session chain, back-to-back legs
// belonging to one group.
func Chain(minutes []int) DurationSpec {
	return DurationSpec{chain: true, durations: append([]int(nil), minutes...)}
}

func (s DurationSpec) IsChain() bool { return s.chain }

// Durations returns the ordered session lengths. Single specs return one element.
func (s DurationSpec) Durations() []int { return s.durations }

// Longest returns the largest session length. For single specs this is the
// duration itself; for chains it only bounds candidate generation, the chain
// validator does the precise check.
func (s DurationSpec) Longest() int {
	max := 0
	for _, d := range s.durations {
		if d > max {
			max = d
		}
	}
	return max
}

// Validate rejects structurally invalid specs. The 30..180 business range is
// the caller's responsibility; the engine only requires positive durations.
func (s DurationSpec) Validate() error {
	if len(s.durations) == 0 {
		return errors.New("duration spec is empty")
	}
	for i, d := range s.durations {
		if d <= 0 {
			return fmt.Errorf("duration %d at position %d must be positive", d, i)
		}
	}
	return nil
}

// Geofence is a circular service area a provider is willing to travel within.
type Geofence struct {
	Center      Location
	RadiusMiles float64
}

// Options carries the optional context of a resolution request.
type Options struct {
	GroupID              string
	ExtraDepartureBuffer int
	ProviderID           string
	Geofence             *Geofence
}
