package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotCache keeps freshly generated slot lists in Redis for a short TTL so
// bursts of calendar views do not recompute the same day. Entries are
// invalidated implicitly by the TTL; a booking landing inside the window is
// caught again by the conflict guard at creation time.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotCache creates a cache over the given client.
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

// Key builds the cache key for one worker+service+date slot query.
func Key(workerID, serviceID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%s", workerID, serviceID, date.Format("2006-01-02"))
}

// Get loads a cached value into dest. The second return is false on a miss.
func (c *SlotCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (c *SlotCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}
