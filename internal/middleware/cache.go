package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/config"
	"github.com/iliyamo/space-travel-booking/internal/logger"
)

// cachedResponse is what the cache stores per key.  Headers are kept so a
// hit is byte-identical to the original response.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// captureWriter tees the response body (up to limit bytes) while forwarding
// it to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.truncated {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			cw.truncated = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// hopHeaders are never replayed from the cache.  Rate-limit headers are
// per request and are set live by the token bucket.
var hopHeaders = map[string]bool{
	"Content-Length": true,
	"X-Cache":        true,
	SessionHeader:    true,
	"Set-Cookie":     true,
	"Retry-After":    true,
}

const rateLimitHeaderPrefix = "X-Ratelimit-"

func storable(key string) bool {
	k := http.CanonicalHeaderKey(key)
	return !hopHeaders[k] && !strings.HasPrefix(k, rateLimitHeaderPrefix)
}

// NewRedisCache caches successful responses of the configured methods in
// Redis.  Only 200 responses whose body fits MaxBodyBytes are stored.  It
// must only wrap routes whose output is the same for every session.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(bs, &hit) == nil && hit.Status != 0 {
					return replay(c, hit)
				}
			} else if err != redis.Nil {
				logger.WithTrace(ctx).Debug("cache: redis get failed", zap.String("key", key), zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			entry := cachedResponse{Status: cw.status, Header: storableHeader(c.Response().Header()), Body: cw.buf.Bytes()}
			payload, err := json.Marshal(entry)
			if err != nil {
				return nil
			}
			// The request context may already be cancelled once the client has its response.
			if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				logger.WithTrace(ctx).Debug("cache: redis set failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

func replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		if !storable(k) {
			continue
		}
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vals...)
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(hit.Status)
	if len(hit.Body) > 0 {
		_, err := c.Response().Write(hit.Body)
		return err
	}
	return nil
}

func storableHeader(src http.Header) http.Header {
	out := make(http.Header, len(src))
	for k, vals := range src {
		if !storable(k) {
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// cacheKeyFrom builds a stable cache key honouring prefix and strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", r.URL.Path}
	case "method_route":
		parts = []string{"method", r.Method, "route", r.URL.Path}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", r.URL.Path, "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}
