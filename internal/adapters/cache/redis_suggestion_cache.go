package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "suggest:"

// RedisSuggestionCache stores provider suggestions in Redis with a TTL.
type RedisSuggestionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{Client: client, TTL: ttl}
}

// cacheKey normalizes the destination so lookups are case and whitespace
// insensitive.
func cacheKey(destination string, kind domain.OverlayKind) string {
	return redisKeyPrefix + kind.String() + ":" + normalize(destination)
}

func (c *RedisSuggestionCache) Get(
	ctx context.Context,
	destination string,
	kind domain.OverlayKind,
) (_ []string, _ bool, err error) {
	defer obs.Time(ctx, "suggest.cache.redis.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("suggestion cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, cacheKey(destination, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: redis get: %w", err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: decode: %w", err)
	}

	return names, true, nil
}

func (c *RedisSuggestionCache) Put(ctx context.Context, destination string, kind domain.OverlayKind, names []string) error {
	if c.Client == nil {
		return errors.New("suggestion cache: redis client is nil")
	}

	if strings.TrimSpace(destination) == "" {
		return errors.New("put suggestion cache: destination must not be empty")
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("put suggestion cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, cacheKey(destination, kind), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put suggestion cache: redis set: %w", err)
	}

	return nil
}
