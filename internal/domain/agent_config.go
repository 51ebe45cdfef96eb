package domain

import "time"

// AgentConfig is the singleton runtime configuration edited by admins.
// Triage and the SLA sweep read it fresh on every invocation so edits take
// effect immediately.
type AgentConfig struct {
	AutoCloseEnabled    bool
	ConfidenceThreshold float64
	SLAHours            float64
	UpdatedAt           time.Time
}

// DefaultAgentConfig returns the values used until an admin edits them.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		AutoCloseEnabled:    false,
		ConfidenceThreshold: 0.7,
		SLAHours:            72,
	}
}
