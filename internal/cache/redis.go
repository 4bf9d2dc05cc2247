package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/apexshine/detailbooking/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// AcquireSlotHold takes a short-lived hold on a date/time slot while the
// booking insert is in flight. It is a cheap first gate only; the database's
// unique index remains the authority, so a lost or expired hold is harmless.
func (c *RedisCache) AcquireSlotHold(ctx context.Context, date, slot string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, slotHoldKey(date, slot), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, date, slot string) error {
	return c.client.Del(ctx, slotHoldKey(date, slot)).Err()
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// IncrRequest bumps the fixed-window request counter for a client and returns
// the count within the current window.
func (c *RedisCache) IncrRequest(ctx context.Context, clientKey string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, c.client, []string{"rl:" + clientKey}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	n, ok := res.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
	return n, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func slotHoldKey(date, slot string) string {
	return fmt.Sprintf("hold:slot:%s:%s", date, slot)
}
