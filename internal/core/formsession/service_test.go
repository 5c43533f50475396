package formsession

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipon-events/tipon/internal/platform/apperr"
)

type fakeRepository struct {
	sessions map[string]*Session
	ttls     map[string]time.Duration
	saveErr  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		sessions: make(map[string]*Session),
		ttls:     make(map[string]time.Duration),
	}
}

func (repository *fakeRepository) Save(_ context.Context, session *Session, ttl time.Duration) error {
	if repository.saveErr != nil {
		return repository.saveErr
	}
	stored := *session
	repository.sessions[session.ID] = &stored
	repository.ttls[session.ID] = ttl
	return nil
}

func (repository *fakeRepository) Get(_ context.Context, id string) (*Session, error) {
	session, ok := repository.sessions[id]
	if !ok {
		return nil, apperr.NotFound("form session")
	}
	found := *session
	return &found, nil
}

func newTestService(repository Repository, now time.Time) *Service {
	service := NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.now = func() time.Time { return now }
	return service
}

func TestService_Start(t *testing.T) {
	repository := newFakeRepository()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	service := newTestService(repository, now)

	status, err := service.Start(context.Background(), "CDO")
	require.NoError(t, err)

	assert.NotEmpty(t, status.ID)
	assert.Equal(t, "CDO", status.Scope)
	assert.Equal(t, now.Add(30*time.Minute), status.ExpiresAt)
	assert.EqualValues(t, 1800, status.Remaining)
	assert.True(t, status.CanExtend)

	// The key must survive a potential extension.
	assert.Equal(t, 40*time.Minute, repository.ttls[status.ID])
}

func TestService_Extend(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("grants a single extension", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository, now)

		started, err := service.Start(context.Background(), "CDO")
		require.NoError(t, err)

		extended, err := service.Extend(context.Background(), started.ID)
		require.NoError(t, err)
		assert.Equal(t, now.Add(40*time.Minute), extended.ExpiresAt)
		assert.False(t, extended.CanExtend)

		_, err = service.Extend(context.Background(), started.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "CONFLICT"))
	})

	t.Run("refuses an expired session", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository, now)

		started, err := service.Start(context.Background(), "CDO")
		require.NoError(t, err)

		service.now = func() time.Time { return now.Add(31 * time.Minute) }
		_, err = service.Extend(context.Background(), started.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "CONFLICT"))
	})

	t.Run("unknown session", func(t *testing.T) {
		service := newTestService(newFakeRepository(), now)
		_, err := service.Extend(context.Background(), "missing")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

func TestService_Get(t *testing.T) {
	repository := newFakeRepository()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	service := newTestService(repository, now)

	started, err := service.Start(context.Background(), "CDO")
	require.NoError(t, err)

	service.now = func() time.Time { return now.Add(26 * time.Minute) }
	status, err := service.Get(context.Background(), started.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 240, status.Remaining)
	assert.True(t, status.Warning)
	assert.False(t, status.Expired)
}
