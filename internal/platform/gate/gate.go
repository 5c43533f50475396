// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

/*
Package gate provides request admission control shared by all handlers:
per-client throttling and a maintenance-mode switch.

The Keeper interface deliberately hides where the counters live. The Redis
implementation keeps the decision correct across multiple processes and
instances; the in-memory implementation is the single-instance default used
in development and tests.
*/
package gate

import (
	"context"
	"time"
)

// Decision is the outcome of a throttle check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// RetryAfter is the suggested client back-off when Allowed is false.
	RetryAfter time.Duration
}

// Keeper decides whether a request identified by a client key may proceed,
// and whether the whole service is gated behind maintenance mode.
type Keeper interface {
	// Check consumes one slot for the given key (typically the client IP).
	Check(ctx context.Context, key string) (Decision, error)

	// InMaintenance reports whether the service-wide maintenance flag is set.
	InMaintenance(ctx context.Context) (bool, error)
}
