package entities

import "time"

type LocationRequest struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// SessionRequest is one leg of a multi-session chain.
type SessionRequest struct {
	DurationMinutes int    `json:"duration_minutes"`
	OccupantName    string `json:"occupant_name,omitempty"`
	Price           int    `json:"price"`
}

// CreateBookingRequest books a single session when Sessions is empty, or a
// back-to-back chain when it is not (Duration and Price are then ignored).
type CreateBookingRequest struct {
	ProviderID           string           `json:"provider_id"`
	Date                 string           `json:"date"`       // "2006-01-02"
	StartTime            string           `json:"start_time"` // "15:04"
	DurationMinutes      int              `json:"duration_minutes"`
	Price                int              `json:"price"`
	Location             LocationRequest  `json:"location"`
	Sessions             []SessionRequest `json:"sessions,omitempty"`
	ExtraDepartureBuffer int              `json:"extra_departure_buffer,omitempty"`
}

type BookingResponse struct {
	Code            string    `json:"code"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	StartUTC        time.Time `json:"start_utc"`
	EndUTC          time.Time `json:"end_utc"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	GroupID         string    `json:"group_id,omitempty"`
	Address         string    `json:"address"`
	Price           int       `json:"price"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}
