package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-travel-booking/internal/catalog"
	"github.com/iliyamo/space-travel-booking/internal/service"
)

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

var menu = []MenuItem{
	{Name: "Book a Trip", Method: http.MethodPost, Path: "/v1/bookings"},
	{Name: "View Bookings", Method: http.MethodGet, Path: "/v1/bookings"},
	{Name: "Countdown to Launch", Method: http.MethodGet, Path: "/v1/bookings/:number/countdown"},
	{Name: "AI Travel Tips", Method: http.MethodGet, Path: "/v1/tips"},
}

// PublicHandler serves the session-independent, read-only endpoints:
// the landing page, the catalog, quotes and tips.
type PublicHandler struct {
	Catalog *catalog.Catalog
	Service *service.BookingService
}

// NewPublicHandler panics on nil dependencies.
func NewPublicHandler(cat *catalog.Catalog, svc *service.BookingService) *PublicHandler {
	if cat == nil || svc == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Catalog: cat, Service: svc}
}

// Home handles GET /v1.
func (h *PublicHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title":   "Space Travel Booking Platform",
		"welcome": "Welcome to the future of space travel! Book your trip to the stars today.",
		"menu":    menu,
	})
}

// ListDestinations handles GET /v1/destinations.  Besides the catalog it
// returns the trip length bounds so clients can build the day selector.
func (h *PublicHandler) ListDestinations(c echo.Context) error {
	ds := h.Catalog.Destinations()
	items := make([]DestinationView, 0, len(ds))
	for _, d := range ds {
		items = append(items, destinationView(d))
	}
	l := h.Service.Limits
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"trip_days": echo.Map{"min": l.Min, "max": l.Max, "default": l.Default},
	})
}

// GetDestination handles GET /v1/destinations/:id.
func (h *PublicHandler) GetDestination(c echo.Context) error {
	d, err := h.Catalog.Destination(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, destinationView(d))
}

// ListAccommodations handles GET /v1/destinations/:id/accommodations.
func (h *PublicHandler) ListAccommodations(c echo.Context) error {
	items, err := h.Catalog.Accommodations(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Quote handles GET /v1/quote?destination=&seat_class=&days=.  Days is
// optional and defaults to the configured default trip length.
func (h *PublicHandler) Quote(c echo.Context) error {
	dest := strings.TrimSpace(c.QueryParam("destination"))
	class := strings.TrimSpace(c.QueryParam("seat_class"))
	if dest == "" || class == "" {
		return badRequest(c, "destination and seat_class are required")
	}
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "days must be an integer")
		}
		days = n
	}
	q, err := h.Service.Quote(c.Request().Context(), dest, class, days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"quote":   q,
		"message": "Total Price for " + strconv.Itoa(q.Days) + " days: $" + strconv.FormatInt(q.Total, 10),
	})
}

// Tips handles GET /v1/tips.
func (h *PublicHandler) Tips(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Tips()})
}
