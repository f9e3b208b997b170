package availability

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	// DefaultBufferMinutes is used until provider registration captures a
	// per-provider buffer preference.
	DefaultBufferMinutes = 15

	// Work-day bounds for chain validation, local hours.
	DefaultEarliestHour = 6
	DefaultLatestHour   = 22

	defaultWorkers       = 4
	defaultOracleTimeout = 10 * time.Second
)

// Resolver runs the slot resolution pipeline:
// generate -> filter occupancy -> validate -> ordered result.
// A resolution request is stateless and idempotent; nothing is retained
// between requests and the booking snapshot is never mutated.
type Resolver struct {
	Oracle Oracle

	// Workers bounds concurrent travel validations so the oracle is not
	// overwhelmed. OracleTimeout caps each candidate's validation.
	Workers       int
	OracleTimeout time.Duration

	EarliestHour int
	LatestHour   int
}

func NewResolver(oracle Oracle) *Resolver {
	return &Resolver{
		Oracle:        oracle,
		Workers:       defaultWorkers,
		OracleTimeout: defaultOracleTimeout,
		EarliestHour:  DefaultEarliestHour,
		LatestHour:    DefaultLatestHour,
	}
}

// Resolve computes every start instant at which the requested session (or
// chain) could legally begin. Bookings must be the day's snapshot sorted
// ascending by start, already stripped of cancelled and completed entries.
// The result ascends by start time; an empty result means no availability
// and is not an error. Only structurally invalid input fails the request.
func (r *Resolver) Resolve(ctx context.Context, w Window, bookings []Booking, spec DurationSpec, bufferMinutes int, clientLocation Location, opts Options) ([]Slot, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid duration spec: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}
	if bufferMinutes <= 0 {
		bufferMinutes = DefaultBufferMinutes
	}

	slots := GenerateSlots(w, spec)
	slots = RemoveOccupied(slots, bookings, spec, bufferMinutes, opts.GroupID, clientLocation)

	if spec.IsChain() {
		var kept []Slot
		for _, s := range slots {
			if err := ValidateChain(s.Start, spec.Durations(), r.EarliestHour, r.LatestHour, bufferMinutes, w.Zone); err != nil {
				continue
			}
			kept = append(kept, s)
		}
		return kept, nil
	}
	return r.validateSingleSessions(ctx, slots, bookings, bufferMinutes, clientLocation, opts), nil
}

// validateSingleSessions fans travel validation out over a bounded worker
// pool. Verdicts land in a slice indexed by candidate position, so the
// returned slots keep their ascending order no matter when each verdict
// arrives. One failed candidate never aborts the others.
func (r *Resolver) validateSingleSessions(ctx context.Context, slots []Slot, bookings []Booking, bufferMinutes int, clientLocation Location, opts Options) []Slot {
	if len(slots) == 0 {
		return nil
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := r.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}

	prevs, nexts := neighbors(slots, bookings)

	valid := make([]bool, len(slots))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range slots {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			slotCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := validateTravel(slotCtx, r.Oracle, slots[i], prevs[i], nexts[i], clientLocation, bufferMinutes, bookings, opts); err != nil {
				log.Printf("Slot %s dropped: %v", slots[i].LocalStart, err)
				return
			}
			valid[i] = true
		}(i)
	}
	wg.Wait()

	var kept []Slot
	for i, ok := range valid {
		if ok {
			kept = append(kept, slots[i])
		}
	}
	return kept
}

// neighbors pairs each candidate with the last booking ending at or before
// its start and the first booking starting after it, in one pass over the
// time-sorted inputs.
func neighbors(slots []Slot, bookings []Booking) (prevs, nexts []*Booking) {
	prevs = make([]*Booking, len(slots))
	nexts = make([]*Booking, len(slots))
	pi, ni := -1, 0
	for i := range slots {
		start := slots[i].Start
		for pi+1 < len(bookings) && !bookings[pi+1].End.After(start) {
			pi++
		}
		for ni < len(bookings) && !bookings[ni].Start.After(start) {
			ni++
		}
		if pi >= 0 {
			prevs[i] = &bookings[pi]
		}
		if ni < len(bookings) {
			nexts[i] = &bookings[ni]
		}
	}
	return prevs, nexts
}
