// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// BookingQueueName is the durable queue carrying BookingConfirmedEvent.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published when a booking is stored in a session.
// It carries enough information for downstream consumers to log or notify
// without access to the in-memory session store.
type BookingConfirmedEvent struct {
	BookingID     string            `json:"booking_id"`
	SessionID     string            `json:"session_id"`
	Number        int               `json:"number"`
	DestinationID string            `json:"destination_id"`
	Destination   string            `json:"destination"`
	SeatClass     string            `json:"seat_class"`
	PricePerDay   int64             `json:"price_per_day"`
	TotalPrice    int64             `json:"total_price"`
	DepartureDate string            `json:"departure_date"`
	TripDuration  int               `json:"trip_duration"`
	ConfirmedAt   string            `json:"confirmed_at"`
	TraceContext  map[string]string `json:"trace_context,omitempty"`
}
