// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

package gate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tipon-events/tipon/internal/platform/constants"
)

// memoryClient tracks one client's token bucket and last activity.
type memoryClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryKeeper is the single-instance [Keeper] default.
//
// It keeps a token bucket per client key in process memory with a background
// sweep of idle entries. Correct only when exactly one instance serves
// traffic; multi-instance deployments must use [RedisKeeper].
type MemoryKeeper struct {
	mu          sync.Mutex
	clients     map[string]*memoryClient
	rps         rate.Limit
	burst       int
	maintenance bool
}

// NewMemoryKeeper constructs a MemoryKeeper and starts its idle-entry sweep,
// which stops when ctx is cancelled.
func NewMemoryKeeper(ctx context.Context) *MemoryKeeper {
	keeper := &MemoryKeeper{
		clients: make(map[string]*memoryClient),
		rps:     rate.Limit(constants.DefaultGateRPS),
		burst:   constants.DefaultGateBurst,
	}

	go keeper.sweep(ctx)

	return keeper
}

// Check implements [Keeper] with a per-key token bucket.
func (keeper *MemoryKeeper) Check(_ context.Context, key string) (Decision, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	client, found := keeper.clients[key]
	if !found {
		client = &memoryClient{limiter: rate.NewLimiter(keeper.rps, keeper.burst)}
		keeper.clients[key] = client
	}

	client.lastSeen = time.Now()

	if !client.limiter.Allow() {
		return Decision{Allowed: false, RetryAfter: time.Second}, nil
	}

	return Decision{Allowed: true}, nil
}

// InMaintenance implements [Keeper] from the in-process flag.
func (keeper *MemoryKeeper) InMaintenance(_ context.Context) (bool, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.maintenance, nil
}

// SetMaintenance toggles the in-process maintenance flag.
func (keeper *MemoryKeeper) SetMaintenance(on bool) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.maintenance = on
}

// sweep periodically removes idle client entries to bound memory.
func (keeper *MemoryKeeper) sweep(ctx context.Context) {
	ticker := time.NewTicker(constants.GateCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			keeper.mu.Lock()
			for key, client := range keeper.clients {
				if time.Since(client.lastSeen) > constants.GateClientTTL {
					delete(keeper.clients, key)
				}
			}
			keeper.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
