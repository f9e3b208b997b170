package entities

import "time"

type CreateAvailabilityRequest struct {
	Date  string `json:"date"`  // "2006-01-02"
	Start string `json:"start"` // "15:04"
	End   string `json:"end"`
	Type  string `json:"type"` // autobook or unavailable
}

type AvailabilityBlockResponse struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"type"`
}

// SlotResponse is one offerable start, in both wall-clock and UTC form.
type SlotResponse struct {
	LocalStart string    `json:"local_start"`
	LocalEnd   string    `json:"local_end"`
	StartUTC   time.Time `json:"start_utc"`
	EndUTC     time.Time `json:"end_utc"`
	DST        bool      `json:"dst"`
}
