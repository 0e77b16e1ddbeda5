package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gesclient/internal/ratelimit/models"
)

// slidingWindowScript trims the window, then records the request if the
// limit allows it. Scores are unix milliseconds.
// Returns {allowed, count, oldest}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	count = count + 1
	allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = now
if oldest[2] then
	first = tonumber(oldest[2])
end
return {allowed, count, first}
`)

// Redis is a sliding-window store shared by every instance. Each key is a
// sorted set of request timestamps.
type Redis struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (s *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	now := s.now()
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	count := int(res[1])
	resetAt := time.UnixMilli(res[2]).Add(window)
	result := &models.Result{
		Allowed:   res[0] == 1,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.Remaining = 0
		result.RetryAfter = retryAfter(now, resetAt)
	}
	return result, nil
}

func (s *Redis) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
