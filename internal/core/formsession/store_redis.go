package formsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tipon-events/tipon/internal/platform/apperr"
	"github.com/tipon-events/tipon/internal/platform/constants"
)

// RedisRepository stores sessions as JSON blobs with a TTL, so expired
// sessions vanish without a sweeper.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func sessionKey(id string) string {
	return constants.RedisPrefixFormSession + id
}

func (repository *RedisRepository) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return apperr.Internal(fmt.Errorf("encode form session: %w", err))
	}
	if err := repository.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("save form session: %w", err))
	}
	return nil
}

func (repository *RedisRepository) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := repository.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("form session")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load form session: %w", err))
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode form session: %w", err))
	}
	return &session, nil
}
