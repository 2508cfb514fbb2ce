package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/space-travel-booking/internal/config"
	"github.com/iliyamo/space-travel-booking/internal/repository"
	"github.com/iliyamo/space-travel-booking/internal/utils"
)

const testSecret = "test-secret"

func newSessionServer(t *testing.T) (*echo.Echo, *repository.SessionRepo) {
	t.Helper()
	repo := repository.NewSessionRepo(time.Hour, nil, nil)
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, SessionID(c))
	}, Session(testSecret, repo))
	return e, repo
}

func do(e *echo.Echo, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionCreatedWithoutToken(t *testing.T) {
	e, repo := newSessionServer(t)

	rec := do(e, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Body.String()
	assert.NotEmpty(t, sid)
	assert.Equal(t, 1, repo.Len())

	tok := rec.Header().Get(SessionHeader)
	parsed, err := utils.ParseSessionToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, sid, parsed)
}

func TestSessionReusedFromHeaderOrBearer(t *testing.T) {
	e, repo := newSessionServer(t)
	first := do(e, "", "")
	sid := first.Body.String()
	tok := first.Header().Get(SessionHeader)

	rec := do(e, SessionHeader, tok)
	assert.Equal(t, sid, rec.Body.String())

	rec = do(e, "Authorization", "Bearer "+tok)
	assert.Equal(t, sid, rec.Body.String())
	assert.Equal(t, 1, repo.Len())
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	e, repo := newSessionServer(t)
	rec := do(e, SessionHeader, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid session token"}`, rec.Body.String())
	assert.Equal(t, 0, repo.Len())
}

func TestSessionRestoresUnknownID(t *testing.T) {
	e, repo := newSessionServer(t)
	tok, err := utils.NewSessionToken(testSecret, "from-before-restart", time.Hour, time.Now())
	require.NoError(t, err)

	rec := do(e, SessionHeader, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-before-restart", rec.Body.String())
	_, err = repo.Info("from-before-restart")
	assert.NoError(t, err)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /v1/bookings", buildRateKey(cfg, c))

	cfg.KeyStrategy = "session"
	assert.Equal(t, "rl:session:anon", buildRateKey(cfg, c))
	c.Set(contextSessionID, "abc")
	assert.Equal(t, "rl:session:abc", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:10.0.0.1:session:abc:route:POST /v1/bookings", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	assert.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Equal(t, int64(0), retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), "0", int64(1500)})
	assert.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, 2, retryAfterSeconds(retry))

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/x", h,
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestCaptureWriterDropsOversizedBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated)
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestCacheKeyDistinguishesPathsAndQueries(t *testing.T) {
	e := echo.New()
	ctxFor := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}
	cfg := config.CacheConfig{Prefix: "c", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, ctxFor("/v1/destinations/mars-colony"))
	b := cacheKeyFrom(cfg, ctxFor("/v1/destinations/lunar-hotel"))
	q := cacheKeyFrom(cfg, ctxFor("/v1/destinations/mars-colony?x=1"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, q)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, ctxFor("/v1/tips")), cacheKeyFrom(cfg, ctxFor("/v1/tips?x=1")))
}

func TestStorableHeaderSkipsSessionAndLength(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", "10")
	h.Set(SessionHeader, "tok")
	out := storableHeader(h)
	assert.Equal(t, http.Header{"Content-Type": []string{"application/json"}}, out)
}

func TestStorableHeaderSkipsRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-RateLimit-Limit", "10")
	h.Set("X-RateLimit-Remaining", "9")
	h.Set("Retry-After", "1")
	assert.Equal(t, http.Header{"Content-Type": []string{"application/json"}}, storableHeader(h))
}
