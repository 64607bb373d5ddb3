package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an anonymous device's intent is kept.
const DefaultTTL = 24 * time.Hour

// RedisCache is the server-side slot for one anonymous device, used by the
// QR lazy-auth flow to carry a vote across the OAuth redirect.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Key returns the slot key for a device.
func Key(deviceID string) string {
	return fmt.Sprintf("tapea:pending_vote:%s", deviceID)
}

// NewRedisCache binds a cache to the given device's slot.
func NewRedisCache(client *redis.Client, deviceID string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, key: Key(deviceID), ttl: ttl}
}

func (c *RedisCache) Load(ctx context.Context) (*Vote, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get pending vote: %w", err)
	}

	var v Vote
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode pending vote: %w", err)
	}
	return &v, nil
}

func (c *RedisCache) Save(ctx context.Context, v Vote) error {
	if err := v.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode pending vote: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set pending vote: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del pending vote: %w", err)
	}
	return nil
}
