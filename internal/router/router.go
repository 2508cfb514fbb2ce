// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/space-travel-booking/internal/config"
	"github.com/iliyamo/space-travel-booking/internal/handler"
	"github.com/iliyamo/space-travel-booking/internal/middleware"
	"github.com/iliyamo/space-travel-booking/internal/repository"
)

// Deps carries everything the routes need.  Redis may be nil, in which
// case caching and rate limiting are skipped.
type Deps struct {
	Public        *handler.PublicHandler
	Bookings      *handler.BookingHandler
	Sessions      *repository.SessionRepo
	SessionSecret string
	Redis         *redis.Client
	Cache         config.CacheConfig
	RateLimit     config.RateLimitConfig
}

// RegisterRoutes registers routes that sit outside the API, currently the
// health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the session-independent read-only endpoints.
// Their responses are identical for every client, so they go through the
// response cache.
func RegisterPublic(e *echo.Echo, d Deps) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)
	g.GET("", d.Public.Home)
	g.GET("/destinations", d.Public.ListDestinations)
	g.GET("/destinations/:id", d.Public.GetDestination)
	g.GET("/destinations/:id/accommodations", d.Public.ListAccommodations)
	g.GET("/quote", d.Public.Quote)
	g.GET("/tips", d.Public.Tips)
}

// RegisterBookings registers the session-scoped booking endpoints.  The
// Session middleware runs first so the rate limiter can key on the session.
func RegisterBookings(e *echo.Echo, d Deps) {
	g := e.Group("/v1/bookings",
		middleware.Session(d.SessionSecret, d.Sessions),
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
	)
	g.POST("", d.Bookings.CreateBooking)
	g.GET("", d.Bookings.ListBookings)
	g.GET("/:number", d.Bookings.GetBooking)
	g.GET("/:number/countdown", d.Bookings.Countdown)
}

// Register wires every route group.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e)
	RegisterPublic(e, d)
	RegisterBookings(e, d)
}
