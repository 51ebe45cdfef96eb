package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ConfigRepository reads and writes the agent config singleton. Get is
// called fresh on every triage and sweep invocation; there is deliberately
// no caching layer so admin edits take effect immediately.
type ConfigRepository interface {
	Get(ctx context.Context) (domain.AgentConfig, error)
	Update(ctx context.Context, cfg domain.AgentConfig) (domain.AgentConfig, error)
}

type configRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository builds repository.
func NewConfigRepository(pool *pgxpool.Pool) ConfigRepository {
	return &configRepository{pool: pool}
}

func (r *configRepository) Get(ctx context.Context) (domain.AgentConfig, error) {
	const query = `
        SELECT auto_close_enabled, confidence_threshold, sla_hours, updated_at
        FROM agent_config WHERE id=1`
	var cfg domain.AgentConfig
	if err := r.pool.QueryRow(ctx, query).Scan(
		&cfg.AutoCloseEnabled,
		&cfg.ConfidenceThreshold,
		&cfg.SLAHours,
		&cfg.UpdatedAt,
	); err != nil {
		return domain.AgentConfig{}, err
	}
	return cfg, nil
}

func (r *configRepository) Update(ctx context.Context, cfg domain.AgentConfig) (domain.AgentConfig, error) {
	const query = `
        INSERT INTO agent_config (id, auto_close_enabled, confidence_threshold, sla_hours, updated_at)
        VALUES (1, $1, $2, $3, NOW())
        ON CONFLICT (id) DO UPDATE SET
            auto_close_enabled=EXCLUDED.auto_close_enabled,
            confidence_threshold=EXCLUDED.confidence_threshold,
            sla_hours=EXCLUDED.sla_hours,
            updated_at=NOW()
        RETURNING auto_close_enabled, confidence_threshold, sla_hours, updated_at`
	var out domain.AgentConfig
	if err := r.pool.QueryRow(ctx, query,
		cfg.AutoCloseEnabled,
		cfg.ConfidenceThreshold,
		cfg.SLAHours,
	).Scan(
		&out.AutoCloseEnabled,
		&out.ConfidenceThreshold,
		&out.SLAHours,
		&out.UpdatedAt,
	); err != nil {
		return domain.AgentConfig{}, err
	}
	return out, nil
}
