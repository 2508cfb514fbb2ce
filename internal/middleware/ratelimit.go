package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/config"
	"github.com/iliyamo/space-travel-booking/internal/logger"
)

// tokenBucketScript refills and takes one token atomically.  It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
    tokens = capacity
    last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
    local elapsed = math.max(0, now_ms - last_refill)
    local intervals = math.floor(elapsed / interval_ms)
    if intervals > 0 then
        tokens = math.min(capacity, tokens + (intervals * refill_tokens))
        last_refill = last_refill + (intervals * interval_ms)
    end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key with a Redis token bucket.  Redis
// errors fail open so a broken cache never blocks bookings.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			ctx := c.Request().Context()
			vals, err := tokenBucketScript.Run(ctx, rdb, []string{key}, args...).Result()
			if err != nil {
				if cfg.Debug {
					logger.WithTrace(ctx).Warn("ratelimit: redis error", zap.String("key", key), zap.Error(err))
				}
				return next(c)
			}
			allowed, remaining, retryMs, ok := parseBucketResult(vals)
			if !ok {
				if cfg.Debug {
					logger.WithTrace(ctx).Warn("ratelimit: unexpected script result", zap.String("key", key), zap.Any("result", vals))
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !allowed {
				secs := retryAfterSeconds(retryMs)
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func parseBucketResult(v interface{}) (allowed bool, remaining, retryMs int64, ok bool) {
	arr, isArr := v.([]interface{})
	if !isArr || len(arr) != 3 {
		return false, 0, 0, false
	}
	return asInt64(arr[0]) == 1, asInt64(arr[1]), asInt64(arr[2]), true
}

func retryAfterSeconds(ms int64) int {
	secs := int(math.Ceil(float64(ms) / 1000.0))
	if secs < 0 {
		return 0
	}
	return secs
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	default:
		if n, err := strconv.ParseInt(fmt.Sprint(t), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	sid := clientKey(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "session":
		parts = append(parts, "session", sid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_session":
		parts = append(parts, "ip", ip, "session", sid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "session_route":
		parts = append(parts, "session", sid, "route", route)
	default:
		parts = append(parts, "ip", ip, "session", sid, "route", route)
	}
	return strings.Join(parts, ":")
}
