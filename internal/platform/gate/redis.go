// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tipon-events/tipon/internal/platform/constants"
)

// RedisKeeper is the externally-backed [Keeper].
//
// It counts requests per client key in fixed windows using INCR + EXPIRE,
// so the throttle decision holds across every instance sharing the Redis.
// The maintenance flag is a plain key any operator tool can set.
type RedisKeeper struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisKeeper constructs a RedisKeeper with the platform default window
// and per-window request budget.
func NewRedisKeeper(client *redis.Client) *RedisKeeper {
	return &RedisKeeper{
		client: client,
		limit:  int64(constants.DefaultGateRPS * constants.GateWindow.Seconds()),
		window: constants.GateWindow,
	}
}

// Check implements [Keeper] with a fixed-window counter.
func (keeper *RedisKeeper) Check(ctx context.Context, key string) (Decision, error) {
	windowStamp := time.Now().Unix() / int64(keeper.window.Seconds())
	counterKey := fmt.Sprintf("%s%s:%d", constants.RedisPrefixGate, key, windowStamp)

	pipe := keeper.client.TxPipeline()
	count := pipe.Incr(ctx, counterKey)
	// Two windows of retention so a straggling read never misses its counter.
	pipe.Expire(ctx, counterKey, 2*keeper.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("gate: redis check failed: %w", err)
	}

	if count.Val() > keeper.limit {
		return Decision{Allowed: false, RetryAfter: keeper.window}, nil
	}

	return Decision{Allowed: true}, nil
}

// InMaintenance implements [Keeper] from the shared Redis flag.
func (keeper *RedisKeeper) InMaintenance(ctx context.Context) (bool, error) {
	value, err := keeper.client.Exists(ctx, constants.RedisKeyMaintenance).Result()
	if err != nil {
		return false, fmt.Errorf("gate: maintenance flag read failed: %w", err)
	}
	return value > 0, nil
}
