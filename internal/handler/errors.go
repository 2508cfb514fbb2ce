// Package handler exposes the HTTP handlers of the booking API.  Handlers
// translate service errors into JSON bodies of the form {"error": "..."}.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/catalog"
	"github.com/iliyamo/space-travel-booking/internal/logger"
	"github.com/iliyamo/space-travel-booking/internal/pricing"
	"github.com/iliyamo/space-travel-booking/internal/repository"
	"github.com/iliyamo/space-travel-booking/internal/service"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownDestination),
		errors.Is(err, catalog.ErrUnknownSeatClass),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrInvalidDuration),
		errors.Is(err, pricing.ErrPriceOverflow),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrDepartureInPast):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err.  Internal errors are logged and hidden from the client.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithTrace(c.Request().Context()).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
