package notify

import (
	"context"
	"time"

	"voice-webhooks/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const guardKeyPrefix = "voice-webhooks:sms-sent:"

// RedisGuard remembers claimed keys in Redis for ttl.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	return utils.ClaimOnce(ctx, g.rdb, guardKeyPrefix+key, g.ttl)
}
