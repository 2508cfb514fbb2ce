// Package service implements the booking operations on top of the catalog,
// the pricing rules and the in-memory session store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/catalog"
	"github.com/iliyamo/space-travel-booking/internal/logger"
	"github.com/iliyamo/space-travel-booking/internal/model"
	"github.com/iliyamo/space-travel-booking/internal/pricing"
	"github.com/iliyamo/space-travel-booking/internal/queue"
	"github.com/iliyamo/space-travel-booking/internal/repository"
	"github.com/iliyamo/space-travel-booking/internal/tracing"
)

var (
	// ErrInvalidDate is returned when the departure date cannot be parsed or
	// lies beyond the booking horizon.
	ErrInvalidDate = errors.New("invalid departure date")
	// ErrDepartureInPast is returned when the departure date is before today.
	ErrDepartureInPast = errors.New("departure date is in the past")
)

// DefaultHorizonYears is how far ahead a departure may be booked.
const DefaultHorizonYears = 10

var tracer = tracing.Tracer("service")

// BookRequest is the submitted booking form.  Days of zero selects the
// default trip length; DepartureDate uses model.DateLayout.
type BookRequest struct {
	Destination   string
	SeatClass     string
	Days          int
	DepartureDate string
}

// Quote is the price of a trip before it is booked.
type Quote struct {
	DestinationID string `json:"destination_id"`
	Destination   string `json:"destination"`
	SeatClassID   string `json:"seat_class_id"`
	SeatClass     string `json:"seat_class"`
	Label         string `json:"label"`
	pricing.Quote
}

// Confirmation is returned after a booking has been stored.
type Confirmation struct {
	Booking        model.Booking
	Message        string
	Accommodations []string
}

// Countdown describes the time left before a booking's launch.
type Countdown struct {
	Booking         model.Booking
	DaysUntilLaunch int
	Launched        bool
	Message         string
}

// BookingService groups the dependencies of the booking operations.
type BookingService struct {
	Catalog   *catalog.Catalog
	Sessions  *repository.SessionRepo
	Limits    pricing.Limits
	Publisher Publisher
	Location  *time.Location   // calendar used to decide what "today" is
	Now       func() time.Time // injectable clock
	// HorizonYears is the latest bookable departure, in years after today.
	HorizonYears int
}

// NewBookingService wires a service.  A nil publisher disables events, a
// nil location means UTC.
func NewBookingService(cat *catalog.Catalog, sessions *repository.SessionRepo, limits pricing.Limits, pub Publisher, loc *time.Location) *BookingService {
	if cat == nil || sessions == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if pub == nil {
		pub = NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{Catalog: cat, Sessions: sessions, Limits: limits, Publisher: pub, Location: loc, Now: time.Now, HorizonYears: DefaultHorizonYears}
}

// Today returns the current calendar date in the service's location.
func (s *BookingService) Today() time.Time {
	return model.CivilDate(s.Now().In(s.Location))
}

// LatestDeparture returns the last bookable departure date.
func (s *BookingService) LatestDeparture() time.Time {
	years := s.HorizonYears
	if years <= 0 {
		years = DefaultHorizonYears
	}
	return s.Today().AddDate(years, 0, 0)
}

// Quote prices a trip without booking it.
func (s *BookingService) Quote(ctx context.Context, destination, seatClass string, days int) (Quote, error) {
	_, span := tracer.Start(ctx, "BookingService.Quote")
	defer span.End()

	d, sc, err := s.Catalog.SeatClass(destination, seatClass)
	if err != nil {
		span.RecordError(err)
		return Quote{}, err
	}
	q, err := s.Limits.Calculate(sc.PricePerDay, days)
	if err != nil {
		span.RecordError(err)
		return Quote{}, err
	}
	return Quote{
		DestinationID: d.ID,
		Destination:   d.Name,
		SeatClassID:   sc.ID,
		SeatClass:     sc.Name,
		Label:         sc.Label(),
		Quote:         q,
	}, nil
}

// Book validates the form, prices the trip, stores the booking in the
// session and announces it on the event queue.
func (s *BookingService) Book(ctx context.Context, sessionID string, req BookRequest) (Confirmation, error) {
	ctx, span := tracer.Start(ctx, "BookingService.Book")
	defer span.End()

	fail := func(err error) (Confirmation, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Confirmation{}, err
	}

	q, err := s.Quote(ctx, req.Destination, req.SeatClass, req.Days)
	if err != nil {
		return fail(err)
	}
	departure, err := model.ParseDate(req.DepartureDate)
	if err != nil {
		return fail(fmt.Errorf("%w: %q", ErrInvalidDate, req.DepartureDate))
	}
	today := s.Today()
	if departure.Before(today) {
		return fail(fmt.Errorf("%w: %s is before %s", ErrDepartureInPast, departure.Format(model.DateLayout), today.Format(model.DateLayout)))
	}
	if latest := s.LatestDeparture(); departure.After(latest) {
		return fail(fmt.Errorf("%w: %s is after %s", ErrInvalidDate, departure.Format(model.DateLayout), latest.Format(model.DateLayout)))
	}
	accommodations, err := s.Catalog.Accommodations(q.DestinationID)
	if err != nil {
		return fail(err)
	}

	stored, err := s.Sessions.Append(sessionID, model.Booking{
		ID:            uuid.NewString(),
		DestinationID: q.DestinationID,
		Destination:   q.Destination,
		SeatClassID:   q.SeatClassID,
		SeatClass:     q.SeatClass,
		PricePerDay:   q.PricePerDay,
		Price:         q.Total,
		DepartureDate: departure,
		TripDuration:  q.Days,
		CreatedAt:     s.Now().UTC(),
	})
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.String("booking.id", stored.ID),
		attribute.String("booking.destination", stored.DestinationID),
		attribute.Int64("booking.price", stored.Price),
	)

	ev := queue.BookingConfirmedEvent{
		BookingID:     stored.ID,
		SessionID:     sessionID,
		Number:        stored.Number,
		DestinationID: stored.DestinationID,
		Destination:   stored.Destination,
		SeatClass:     stored.SeatClass,
		PricePerDay:   stored.PricePerDay,
		TotalPrice:    stored.Price,
		DepartureDate: stored.Departure(),
		TripDuration:  stored.TripDuration,
		ConfirmedAt:   stored.CreatedAt.Format(time.RFC3339),
		TraceContext:  tracing.InjectToMap(ctx),
	}
	if err := s.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		logger.WithTrace(ctx).Warn("booking event not published", zap.String("booking_id", stored.ID), zap.Error(err))
	}

	return Confirmation{
		Booking:        stored,
		Message:        ConfirmationMessage(stored),
		Accommodations: accommodations,
	}, nil
}

// List returns the session's bookings in the order they were made.
func (s *BookingService) List(ctx context.Context, sessionID string) ([]model.Booking, error) {
	_, span := tracer.Start(ctx, "BookingService.List")
	defer span.End()
	return s.Sessions.List(sessionID)
}

// Get returns one booking by its 1-based number.
func (s *BookingService) Get(ctx context.Context, sessionID string, number int) (model.Booking, error) {
	_, span := tracer.Start(ctx, "BookingService.Get")
	defer span.End()
	return s.Sessions.Get(sessionID, number)
}

// Countdown computes the whole days between today and the booking's
// departure date.  Departures today count as 0 days and are not launched.
func (s *BookingService) Countdown(ctx context.Context, sessionID string, number int) (Countdown, error) {
	_, span := tracer.Start(ctx, "BookingService.Countdown")
	defer span.End()

	b, err := s.Sessions.Get(sessionID, number)
	if err != nil {
		span.RecordError(err)
		return Countdown{}, err
	}
	days := model.DaysBetween(s.Today(), b.DepartureDate)
	cd := Countdown{Booking: b, DaysUntilLaunch: days, Launched: days < 0}
	if cd.Launched {
		cd.Message = "Your trip has already launched!"
	} else {
		cd.Message = fmt.Sprintf("Countdown to launch: %d days.", days)
	}
	return cd, nil
}

// ConfirmationMessage is the success line shown after booking.
func ConfirmationMessage(b model.Booking) string {
	return fmt.Sprintf("Booking confirmed! You're heading to %s in %s class for $%d.", b.Destination, b.SeatClass, b.Price)
}
