package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of civil dates (departure dates).
const DateLayout = "2006-01-02"

// Booking records one confirmed trip inside a session.
//
// Fields:
//  ID            – random identifier (UUID).
//  Number        – 1-based position of the booking within its session.
//  DestinationID – catalog slug of the destination.
//  Destination   – destination display name.
//  SeatClassID   – catalog slug of the seat class.
//  SeatClass     – seat class display name.
//  PricePerDay   – seat class base price at booking time.
//  Price         – total price (PricePerDay * TripDuration).
//  DepartureDate – launch date, midnight UTC of the chosen calendar day.
//  TripDuration  – number of days.
//  CreatedAt     – confirmation timestamp.
type Booking struct {
	ID            string    `json:"id"`
	Number        int       `json:"number"`
	DestinationID string    `json:"destination_id"`
	Destination   string    `json:"destination"`
	SeatClassID   string    `json:"seat_class_id"`
	SeatClass     string    `json:"seat_class"`
	PricePerDay   int64     `json:"price_per_day"`
	Price         int64     `json:"price"`
	DepartureDate time.Time `json:"-"`
	TripDuration  int       `json:"trip_duration"`
	CreatedAt     time.Time `json:"created_at"`
}

// Departure returns the departure date in DateLayout.
func (b Booking) Departure() string { return b.DepartureDate.Format(DateLayout) }

// Summary renders the one-line description shown in booking lists.
func (b Booking) Summary() string {
	return fmt.Sprintf("%d. Destination: %s, Seat Class: %s, Price: $%d, Departure Date: %s, Trip Duration: %d days",
		b.Number, b.Destination, b.SeatClass, b.Price, b.Departure(), b.TripDuration)
}

// CivilDate truncates t to midnight UTC of its calendar day in t's location.
// Two civil dates can be subtracted to obtain a whole number of days.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DateLayout string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t), nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole number of calendar days from a to b.  It
// works on Unix seconds, so ranges beyond time.Duration's ~292 years are exact.
func DaysBetween(a, b time.Time) int {
	return int((CivilDate(b).Unix() - CivilDate(a).Unix()) / secondsPerDay)
}
