package availability

import (
	"errors"
	"fmt"
	"time"

	"mobispa/internal/civil"
)

var (
	// ErrChainInfeasible means a multi-session chain cannot fit at the
	// candidate start. The candidate is dropped; others are still evaluated.
	ErrChainInfeasible = errors.New("session chain cannot fit")

	// ErrOutsideWorkHours means a chain leg starts or ends outside the
	// provider's work-day bounds.
	ErrOutsideWorkHours = fmt.Errorf("leg outside work hours: %w", ErrChainInfeasible)

	// ErrOffGrid means a chain leg does not land on a half-hour boundary.
	ErrOffGrid = fmt.Errorf("leg not on a half-hour boundary: %w", ErrChainInfeasible)

	// ErrChainSpansTransition means the chain span, trailing buffer
	// included, crosses a DST transition.
	ErrChainSpansTransition = fmt.Errorf("chain spans a DST transition: %w", ErrChainInfeasible)
)

// ValidateChain walks a multi-session chain from the candidate start. Legs
// run back-to-back with no buffer in between; the combined departure buffer
// (defaultBuffer per extra session) is reserved after the final leg only.
//
// Every leg must start inside [earliestHour, latestHour) on a half-hour
// boundary and end before latestHour on the same civil day; a leg running
// past midnight shows up as hour >= 24 and fails the bound. The whole span,
// trailing buffer included, must not cross a DST transition — that check
// wraps the walk.
//
// A nil return means the chain fits.
func ValidateChain(start time.Time, durations []int, earliestHour, latestHour, defaultBuffer int, loc *time.Location) error {
	if len(durations) == 0 {
		return fmt.Errorf("empty chain: %w", ErrChainInfeasible)
	}
	total := 0
	for _, d := range durations {
		total += d
	}
	trailingBuffer := defaultBuffer * (len(durations) - 1)
	spanEnd := start.Add(time.Duration(total+trailingBuffer) * time.Minute)
	if civil.SpansTransition(start, spanEnd, loc) {
		return ErrChainSpansTransition
	}

	local := start.In(loc)
	minutes := local.Hour()*60 + local.Minute() // wall minutes since the start's midnight
	for i, d := range durations {
		hour, minute := minutes/60, minutes%60
		if hour < earliestHour || hour >= latestHour {
			return ErrOutsideWorkHours
		}
		if minute%30 != 0 {
			return ErrOffGrid
		}
		endMinutes := minutes + d
		if endMinutes/60 >= latestHour {
			return ErrOutsideWorkHours
		}
		if i == len(durations)-1 && (endMinutes+trailingBuffer)/60 >= latestHour {
			return ErrOutsideWorkHours
		}
		minutes = endMinutes
	}
	return nil
}
