package db

import (
	"database/sql"
	"time"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	AccountType  string // CLIENT or PROVIDER
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Provider profile, unset for clients.
	BusinessName     sql.NullString
	ServiceAreaLat   sql.NullFloat64
	ServiceAreaLng   sql.NullFloat64
	ServiceAreaMiles sql.NullFloat64
	BufferMinutes    sql.NullInt64
}

type AvailabilityBlock struct {
	ID         string
	ProviderID string
	Date       string // civil date, "2006-01-02"
	StartTime  string // wall clock, "15:04"
	EndTime    string
	Type       string // autobook or unavailable
	CreatedAt  time.Time
}

type Booking struct {
	ID                   string
	Code                 string
	ClientID             string
	ProviderID           string
	Date                 string
	StartTime            string
	EndTime              string
	StartUTC             time.Time
	EndUTC               time.Time
	DurationMinutes      int
	Status               string
	GroupID              sql.NullString
	IsLastInGroup        bool
	ExtraDepartureBuffer int
	Address              string
	Lat                  float64
	Lng                  float64
	Price                int
	CancellationReason   sql.NullString
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Invitation struct {
	ID         string
	Token      string
	Email      string
	ProviderID string
	Status     string // pending, accepted, expired
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
