package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/pkg/ai/intent"

	goredis "github.com/redis/go-redis/v9"
)

// IntentCache shares parsed intents between instances through Redis.
type IntentCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

var _ contract.IntentCache = (*IntentCache)(nil)

func NewIntentCache(rdb *goredis.Client, ttl time.Duration) *IntentCache {
	return &IntentCache{rdb: rdb, ttl: ttl}
}

func Key(hash string) string {
	return constant.IntentCacheKeyPrefix + hash
}

func (c *IntentCache) Get(ctx context.Context, key string) (*intent.Intent, bool, error) {
	data, err := c.rdb.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var in intent.Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, false, fmt.Errorf("decode cached intent: %w", err)
	}
	in.Normalize()
	return &in, true, nil
}

func (c *IntentCache) Set(ctx context.Context, key string, in *intent.Intent) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
