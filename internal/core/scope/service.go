package scope

import (
	"context"
	"log/slog"
	"time"

	"github.com/tipon-events/tipon/internal/core/registration"
	"github.com/tipon-events/tipon/internal/platform/config"
	"github.com/tipon-events/tipon/internal/platform/constants"
)

// Service serves conference scopes and derives the admission policy the
// registration orchestrator enforces.
type Service struct {
	repo   Repository
	limits config.Limits
	logger *slog.Logger
}

func NewService(repo Repository, limits config.Limits, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		limits: limits,
		logger: logger,
	}
}

// Get loads a scope by its code.
func (service *Service) Get(ctx context.Context, code string) (*Scope, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.StorageReadTimeout)
	defer cancel()

	return service.repo.GetScope(ctx, code)
}

// AdmissionPolicy implements [registration.PolicySource].
//
// The conference-wide limit comes from the scope row when positive, falling
// back to the environment-configured default; the province-LGU sub-limit is
// always environment-configured. An unloadable timezone degrades to the
// server's local zone with a warning.
func (service *Service) AdmissionPolicy(ctx context.Context, code string) (registration.Policy, error) {
	s, err := service.Get(ctx, code)
	if err != nil {
		return registration.Policy{}, err
	}

	conferenceLimit := s.AdmissionLimit
	if conferenceLimit <= 0 {
		conferenceLimit = service.limits.Conference
	}

	location := time.Local
	if s.Timezone != "" {
		loaded, tzErr := time.LoadLocation(s.Timezone)
		if tzErr != nil {
			service.logger.Warn("scope_timezone_invalid",
				slog.String("scope", s.Code),
				slog.String("timezone", s.Timezone),
			)
		} else {
			location = loaded
		}
	}

	return registration.Policy{
		ConferenceLimit: conferenceLimit,
		LocationLimit:   service.limits.Location,
		Location:        location,
	}, nil
}
