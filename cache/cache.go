package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "community-bot:"

// Cache wraps the redis client used for cooldown tracking and short-lived
// game state. The persisted sqlite store never lives here.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string, db int) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("could not connect to cache at %s: %w", addr, err)
	}
	return &Cache{rdb: rdb}, nil
}

// NewFromClient wraps an existing client. Used by tests.
func NewFromClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

// acquire sets a cooldown key if absent. It reports whether the key was
// taken and, if not, how long until it expires.
func (c *Cache) acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	ok, err := c.rdb.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("could not set cooldown key %s: %w", key, err)
	}
	if ok {
		return true, 0, nil
	}
	remaining, err := c.rdb.TTL(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("could not read cooldown ttl for %s: %w", key, err)
	}
	return false, remaining, nil
}

// ClaimDaily marks a member's daily reward as claimed for the given period.
func (c *Cache) ClaimDaily(ctx context.Context, guildID, userID string, ttl time.Duration) (bool, time.Duration, error) {
	return c.acquire(ctx, "daily:"+guildID+":"+userID, ttl)
}

// GambleCooldown rate-limits a member's gambling commands.
func (c *Cache) GambleCooldown(ctx context.Context, guildID, userID string, ttl time.Duration) (bool, time.Duration, error) {
	return c.acquire(ctx, "gamble:"+guildID+":"+userID, ttl)
}

// SetJSON stores a JSON-marshalled value under a prefixed key.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal value for %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("could not store %s: %w", key, err)
	}
	return nil
}

// GetJSON loads a JSON value. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("could not unmarshal %s: %w", key, err)
	}
	return true, nil
}
