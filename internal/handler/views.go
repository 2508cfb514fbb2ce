package handler

import (
	"time"

	"github.com/iliyamo/space-travel-booking/internal/model"
)

// SeatClassView is a seat class as shown in the booking form.
type SeatClassView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PricePerDay int64  `json:"price_per_day"`
	Label       string `json:"label"`
}

// DestinationView is a destination with its seat classes.
type DestinationView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SeatClasses    []SeatClassView `json:"seat_classes"`
	Accommodations []string        `json:"accommodations"`
}

// BookingView is a booking in API responses.
type BookingView struct {
	ID            string    `json:"id"`
	Number        int       `json:"number"`
	DestinationID string    `json:"destination_id"`
	Destination   string    `json:"destination"`
	SeatClassID   string    `json:"seat_class_id"`
	SeatClass     string    `json:"seat_class"`
	PricePerDay   int64     `json:"price_per_day"`
	Price         int64     `json:"price"`
	DepartureDate string    `json:"departure_date"`
	TripDuration  int       `json:"trip_duration"`
	CreatedAt     time.Time `json:"created_at"`
	Summary       string    `json:"summary"`
}

func destinationView(d model.Destination) DestinationView {
	classes := make([]SeatClassView, 0, len(d.SeatClasses))
	for _, sc := range d.SeatClasses {
		classes = append(classes, SeatClassView{ID: sc.ID, Name: sc.Name, PricePerDay: sc.PricePerDay, Label: sc.Label()})
	}
	return DestinationView{ID: d.ID, Name: d.Name, SeatClasses: classes, Accommodations: d.Accommodations}
}

func bookingView(b model.Booking) BookingView {
	return BookingView{
		ID:            b.ID,
		Number:        b.Number,
		DestinationID: b.DestinationID,
		Destination:   b.Destination,
		SeatClassID:   b.SeatClassID,
		SeatClass:     b.SeatClass,
		PricePerDay:   b.PricePerDay,
		Price:         b.Price,
		DepartureDate: b.Departure(),
		TripDuration:  b.TripDuration,
		CreatedAt:     b.CreatedAt,
		Summary:       b.Summary(),
	}
}
