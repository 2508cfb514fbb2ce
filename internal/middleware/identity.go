package middleware

import "github.com/labstack/echo/v4"

const contextSessionID = "session_id"

// SessionID returns the session attached by the Session middleware, or ""
// when the route is not behind it.
func SessionID(c echo.Context) string {
	if s, ok := c.Get(contextSessionID).(string); ok {
		return s
	}
	return ""
}

// clientKey identifies the caller for rate limiting: the session when there
// is one, "anon" otherwise.
func clientKey(c echo.Context) string {
	if s := SessionID(c); s != "" {
		return s
	}
	return "anon"
}
