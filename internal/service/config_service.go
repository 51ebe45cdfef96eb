package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// ConfigService exposes the agent runtime configuration to admins.
type ConfigService struct {
	configs repository.ConfigRepository
}

// NewConfigService constructs the service.
func NewConfigService(configs repository.ConfigRepository) *ConfigService {
	return &ConfigService{configs: configs}
}

// Get returns the current agent configuration.
func (s *ConfigService) Get(ctx context.Context) (domain.AgentConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return domain.AgentConfig{}, apperrors.MapError(err)
	}
	return cfg, nil
}

// ConfigUpdateInput carries the full replacement configuration.
type ConfigUpdateInput struct {
	AutoCloseEnabled    bool
	ConfidenceThreshold float64
	SLAHours            float64
}

// Update validates and persists a new agent configuration.
func (s *ConfigService) Update(ctx context.Context, input ConfigUpdateInput) (domain.AgentConfig, error) {
	if input.ConfidenceThreshold < 0 || input.ConfidenceThreshold > 1 {
		return domain.AgentConfig{}, apperrors.NewValidationError("confidenceThreshold must be between 0 and 1", map[string]any{
			"confidenceThreshold": input.ConfidenceThreshold,
		})
	}
	if input.SLAHours <= 0 {
		return domain.AgentConfig{}, apperrors.NewValidationError("slaHours must be positive", map[string]any{
			"slaHours": input.SLAHours,
		})
	}

	updated, err := s.configs.Update(ctx, domain.AgentConfig{
		AutoCloseEnabled:    input.AutoCloseEnabled,
		ConfidenceThreshold: input.ConfidenceThreshold,
		SLAHours:            input.SLAHours,
	})
	if err != nil {
		return domain.AgentConfig{}, apperrors.MapError(err)
	}
	return updated, nil
}
