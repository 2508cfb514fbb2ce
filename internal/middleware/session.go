package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/logger"
	"github.com/iliyamo/space-travel-booking/internal/repository"
	"github.com/iliyamo/space-travel-booking/internal/utils"
)

// SessionHeader carries the session token in both directions.
const SessionHeader = "X-Session-Token"

// Session returns a middleware that attaches a booking session to every
// request.  The token is read from X-Session-Token or an
// "Authorization: Bearer" header.  Without a token a new session is
// created; an invalid or expired token is rejected with 401; a valid token
// naming an unknown session (evicted, or issued before a restart) gets a
// fresh empty session with the same ID.  A refreshed token is always
// returned in the X-Session-Token response header so the session slides
// forward while the client is active.
func Session(secret string, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	ttl := sessions.TTL()
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if raw := tokenFromRequest(c.Request()); raw != "" {
				id, err := utils.ParseSessionToken(secret, raw)
				if err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
				}
				if sessions.Ensure(id) {
					logger.WithTrace(c.Request().Context()).Debug("restored unknown session", zap.String("session_id", id))
				}
				sid = id
			} else {
				sid = sessions.Create()
			}

			tok, err := utils.NewSessionToken(secret, sid, ttl, time.Now())
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session token"})
			}
			c.Response().Header().Set(SessionHeader, tok.Token)
			c.Set(contextSessionID, sid)
			return next(c)
		}
	}
}

func tokenFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(SessionHeader)); v != "" {
		return v
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
