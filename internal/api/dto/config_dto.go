package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ConfigUpdateRequest replaces the agent configuration wholesale.
type ConfigUpdateRequest struct {
	AutoCloseEnabled    bool    `json:"autoCloseEnabled"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	SLAHours            float64 `json:"slaHours"`
}

// ConfigResponse is the current agent configuration.
type ConfigResponse struct {
	AutoCloseEnabled    bool      `json:"autoCloseEnabled"`
	ConfidenceThreshold float64   `json:"confidenceThreshold"`
	SLAHours            float64   `json:"slaHours"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewConfigResponse converts the domain config.
func NewConfigResponse(cfg domain.AgentConfig) ConfigResponse {
	return ConfigResponse{
		AutoCloseEnabled:    cfg.AutoCloseEnabled,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		SLAHours:            cfg.SLAHours,
		UpdatedAt:           cfg.UpdatedAt,
	}
}
