/**
 * @description
 * This file implements distributed fixed-window rate limiting backed by
 * Redis. Each scope+subject pair gets a counter keyed under a shared prefix;
 * the Lua script keeps the increment and the window expiry atomic so two
 * instances never double-start a window. A nil limiter or client consumes
 * nothing, so rate limiting degrades to a no-op when Redis is not
 * configured.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9: Redis client and Lua script support.
 */

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Returns {count, remaining window in ms}. PTTL is -1 for a key without an
// expiry, which can happen if PEXPIRE was lost; the caller treats any
// negative ttl as a full window.
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisRateLimiter implements per-route request budgets using Redis.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRateLimiter(client redis.UniversalClient, prefix string) *RedisRateLimiter {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "openfinance:rate_limit"
	}
	return &RedisRateLimiter{
		client: client,
		prefix: strings.TrimSuffix(prefix, ":"),
	}
}

// ConsumeRateLimit counts one request for scope/subject within the window
// and reports the running count plus how long the caller should wait once
// over budget. A zero count means the limiter is disabled or inputs were
// empty.
func (r *RedisRateLimiter) ConsumeRateLimit(
	ctx context.Context,
	scope string,
	subject string,
	limit int,
	window time.Duration,
) (count int, retryAfterSeconds int, err error) {
	if r == nil || r.client == nil || limit <= 0 || window <= 0 {
		return 0, 0, nil
	}
	scope = strings.TrimSpace(scope)
	subject = strings.TrimSpace(subject)
	if scope == "" || subject == "" {
		return 0, 0, nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1000 {
		windowMs = 1000
	}

	key := r.prefix + ":" + scope + ":" + subject
	reply, err := rateLimitScript.Run(ctx, r.client, []string{key}, windowMs).Result()
	if err != nil {
		return 0, 0, err
	}

	current, ttlMs, err := decodeLimiterReply(reply)
	if err != nil {
		return 0, 0, err
	}
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	// Ceiling in whole seconds, never less than one.
	retryAfter := int((ttlMs + 999) / 1000)
	if retryAfter < 1 {
		retryAfter = 1
	}

	return int(current), retryAfter, nil
}

// decodeLimiterReply unpacks the {count, ttl} pair the script returns.
func decodeLimiterReply(reply interface{}) (current int64, ttlMs int64, err error) {
	values, ok := reply.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("rate limit script returned %T, want a two-element array", reply)
	}
	current, ok = values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("rate limit script returned a %T count, want int64", values[0])
	}
	ttlMs, ok = values[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("rate limit script returned a %T ttl, want int64", values[1])
	}
	return current, ttlMs, nil
}
