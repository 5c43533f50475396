package formsession

import (
	"context"
	"time"
)

// Repository persists sessions with a bounded lifetime. Implementations may
// drop a session any time after its expiry passes.
type Repository interface {
	Save(ctx context.Context, session *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
}
