package formsession

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tipon-events/tipon/internal/platform/apperr"
	"github.com/tipon-events/tipon/internal/platform/constants"
)

type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
		now:        time.Now,
	}
}

// Start opens a new countdown for the given scope.
func (service *Service) Start(ctx context.Context, scope string) (Status, error) {
	now := service.now().Truncate(time.Second)

	session := &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Scope:     scope,
		StartedAt: now,
		ExpiresAt: now.Add(constants.FormSessionDuration),
	}

	// Keep the key around for the full possible lifetime: base duration
	// plus the one extension the session may still claim.
	ttl := constants.FormSessionDuration + constants.FormSessionExtension
	if err := service.repository.Save(ctx, session, ttl); err != nil {
		return Status{}, err
	}

	service.logger.InfoContext(ctx, "form session started",
		slog.String("session_id", session.ID),
		slog.String("scope", scope),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return session.StatusAt(now, constants.FormSessionWarnBefore), nil
}

// Extend grants the session its single extension.
func (service *Service) Extend(ctx context.Context, id string) (Status, error) {
	session, err := service.repository.Get(ctx, id)
	if err != nil {
		return Status{}, err
	}

	now := service.now()
	if !session.Extend(now, constants.FormSessionExtension) {
		if session.Extended {
			return Status{}, apperr.Conflict("This session has already been extended")
		}
		return Status{}, apperr.Conflict("This session has expired and can no longer be extended")
	}

	ttl := time.Until(session.ExpiresAt)
	if err := service.repository.Save(ctx, session, ttl); err != nil {
		return Status{}, err
	}

	service.logger.InfoContext(ctx, "form session extended",
		slog.String("session_id", session.ID),
		slog.Time("expires_at", session.ExpiresAt),
	)
	return session.StatusAt(now, constants.FormSessionWarnBefore), nil
}

// Get reports the current countdown state of a session.
func (service *Service) Get(ctx context.Context, id string) (Status, error) {
	session, err := service.repository.Get(ctx, id)
	if err != nil {
		return Status{}, err
	}
	return session.StatusAt(service.now(), constants.FormSessionWarnBefore), nil
}
