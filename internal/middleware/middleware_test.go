package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/weshowyou-tours/internal/config"
	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
)

const testSecret = "test-secret"

func protected(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		s, ok := SessionFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, s)
	}, mw...)
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuth(t *testing.T) {
	e := protected(SessionAuth(testSecret))

	rec := get(e, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", "garbage").Code)

	other, err := utils.NewAccessToken("other-secret", 7, "staff@example.com", model.RoleStaff, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(e, "/me", other.Token).Code)

	tok, err := utils.NewAccessToken(testSecret, 7, "staff@example.com", model.RoleStaff, time.Minute)
	require.NoError(t, err)
	rec = get(e, "/me", tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"staff_id":7`)
	assert.Contains(t, rec.Body.String(), `"role":"STAFF"`)
}

func TestRequireRole(t *testing.T) {
	e := protected(SessionAuth(testSecret), RequireRole(model.RoleStaff))

	tok, err := utils.NewAccessToken(testSecret, 1, "a@example.com", "GUEST", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(e, "/me", tok.Token).Code)

	tok, err = utils.NewAccessToken(testSecret, 1, "a@example.com", model.RoleStaff, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(e, "/me", tok.Token).Code)
}

func TestRequireRoleWithoutSession(t *testing.T) {
	e := protected(RequireRole(model.RoleStaff))
	assert.Equal(t, http.StatusForbidden, get(e, "/me", "").Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(RequestID(), RequestLogger(log))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "abc-123", entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/ping", entry.Data["path"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestLoggerRecordsErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(RequestLogger(log))
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tours", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/tours")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:203.0.113.9:route:GET /v1/tours", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
	c.Set(sessionKey, Session{StaffID: 4})
	assert.Equal(t, "rl:user:4", buildRateKey(cfg, c))
}

func TestDecodeLimiterReply(t *testing.T) {
	res, err := decodeLimiterReply([]int64{1, 9, 0})
	require.NoError(t, err)
	assert.Equal(t, limiterResult{Allowed: true, Remaining: 9}, res)

	res, err = decodeLimiterReply([]int64{0, 0, 750})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 750*time.Millisecond, res.RetryAfter)

	_, err = decodeLimiterReply([]int64{1})
	assert.Error(t, err)
}

func TestTokenBucketFailsOpen(t *testing.T) {
	log, _ := test.NewNullLogger()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()

	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb, log))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, get(e, "/x", "").Code)
	}
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil))

	rec := get(e, "/x", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache"}
	a := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/tours?page=1", nil), httptest.NewRecorder())
	b := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/tours?page=2", nil), httptest.NewRecorder())
	assert.NotEqual(t, cacheKey(cfg, a), cacheKey(cfg, b))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, cacheKey(cfg, a))
}
