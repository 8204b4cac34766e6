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
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/config"
)

// limiterScript keeps a bucket per key as a hash {tokens, refilled_at}.
// Whole refill intervals since refilled_at are credited up to capacity,
// then one token is taken if there is one. The reply is
// {allowed (0/1), tokens left, ms until the next refill}.
var limiterScript = redis.NewScript(`
local now, capacity, per_step, step_ms, ttl =
	tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])

local saved = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_at')
local tokens, refilled_at = tonumber(saved[1]), tonumber(saved[2])
if not tokens or not refilled_at then
	tokens, refilled_at = capacity, now
end

if step_ms > 0 and per_step > 0 and now > refilled_at then
	local steps = math.floor((now - refilled_at) / step_ms)
	if steps > 0 then
		tokens = math.min(capacity, tokens + steps * per_step)
		refilled_at = refilled_at + steps * step_ms
	end
end

local allowed, wait_ms = 0, 0
if tokens >= 1 then
	allowed, tokens = 1, tokens - 1
else
	wait_ms = math.max(0, step_ms - (now - refilled_at))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'refilled_at', refilled_at)
redis.call('EXPIRE', KEYS[1], ttl)
return {allowed, tokens, wait_ms}
`)

// limiterResult is one decision of the token bucket.
type limiterResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

func decodeLimiterReply(reply []int64) (limiterResult, error) {
	if len(reply) != 3 {
		return limiterResult{}, fmt.Errorf("ratelimit: want 3 values from script, got %d", len(reply))
	}
	return limiterResult{
		Allowed:    reply[0] == 1,
		Remaining:  reply[1],
		RetryAfter: time.Duration(reply[2]) * time.Millisecond,
	}, nil
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewTokenBucket returns middleware that spends one token from the caller's
// bucket per request and answers 429 with Retry-After once it is empty.
// Buckets are keyed by cfg.KeyStrategy (ip, staff id, route or a mix) and
// live in Redis, so every instance of the service shares them. Without
// Redis, or when a call to it fails, requests go through unlimited.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []any{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			reply, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("ratelimit: redis error")
				return next(c)
			}
			res, err := decodeLimiterReply(reply)
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("ratelimit: bad script reply")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				h.Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					log.WithFields(logrus.Fields{"key": key, "retry_ms": res.RetryAfter.Milliseconds()}).Info("ratelimit: blocked")
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			return next(c)
		}
	}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := "anon"
	if s, ok := SessionFrom(c); ok {
		uid = strconv.FormatUint(s.StaffID, 10)
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
