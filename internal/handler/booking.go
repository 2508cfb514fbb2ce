package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-travel-booking/internal/middleware"
	"github.com/iliyamo/space-travel-booking/internal/service"
)

// noBookingsMessage is shown when a session has not booked anything yet.
const noBookingsMessage = "No bookings found."

// BookingHandler serves the session-scoped booking endpoints.  All methods
// assume the Session middleware has attached a session to the context.
type BookingHandler struct {
	Service *service.BookingService
}

// NewBookingHandler panics on a nil service.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc}
}

type createBookingRequest struct {
	Destination   string `json:"destination"`
	SeatClass     string `json:"seat_class"`
	Days          int    `json:"days"`
	DepartureDate string `json:"departure_date"`
}

// CreateBooking handles POST /v1/bookings.  The body names the destination,
// seat class, trip length (optional, defaults to the form default) and the
// departure date as YYYY-MM-DD.  It returns 201 with the stored booking,
// the confirmation message and the recommended accommodations.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	sid := middleware.SessionID(c)
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Destination == "" || body.SeatClass == "" || body.DepartureDate == "" {
		return badRequest(c, "destination, seat_class and departure_date are required")
	}
	conf, err := h.Service.Book(c.Request().Context(), sid, service.BookRequest{
		Destination:   body.Destination,
		SeatClass:     body.SeatClass,
		Days:          body.Days,
		DepartureDate: body.DepartureDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking":        bookingView(conf.Booking),
		"message":        conf.Message,
		"accommodations": conf.Accommodations,
	})
}

// ListBookings handles GET /v1/bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.Service.List(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingView(b))
	}
	resp := echo.Map{"items": items, "count": len(items)}
	if len(items) == 0 {
		resp["message"] = noBookingsMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBooking handles GET /v1/bookings/:number.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	n, err := bookingNumber(c)
	if err != nil {
		return badRequest(c, "invalid booking number")
	}
	b, err := h.Service.Get(c.Request().Context(), middleware.SessionID(c), n)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookingView(b))
}

// Countdown handles GET /v1/bookings/:number/countdown.  A session without
// bookings gets 404 with the "No bookings found." message.
func (h *BookingHandler) Countdown(c echo.Context) error {
	n, err := bookingNumber(c)
	if err != nil {
		return badRequest(c, "invalid booking number")
	}
	ctx := c.Request().Context()
	sid := middleware.SessionID(c)
	if list, err := h.Service.List(ctx, sid); err == nil && len(list) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": noBookingsMessage})
	}
	cd, err := h.Service.Countdown(ctx, sid, n)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":           bookingView(cd.Booking),
		"departure_date":    cd.Booking.Departure(),
		"days_until_launch": cd.DaysUntilLaunch,
		"launched":          cd.Launched,
		"message":           cd.Message,
	})
}

func bookingNumber(c echo.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
