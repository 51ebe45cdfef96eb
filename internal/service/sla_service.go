package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SLAService flags tickets that exceeded the configured service-level
// window without resolution.
type SLAService struct {
	tickets  repository.TicketRepository
	config   repository.ConfigRepository
	auditor  *audit.Logger
	notifier Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// SLADependencies bundles what the sweep needs.
type SLADependencies struct {
	TicketRepo repository.TicketRepository
	ConfigRepo repository.ConfigRepository
	Auditor    *audit.Logger
	Notifier   Notifier
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewSLAService constructs the service.
func NewSLAService(deps SLADependencies) *SLAService {
	return &SLAService{
		tickets:  deps.TicketRepo,
		config:   deps.ConfigRepo,
		auditor:  deps.Auditor,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// SweepResult reports how many tickets the sweep flagged.
type SweepResult struct {
	Checked int
}

// RunSweep flags unresolved tickets whose last update is older than the SLA
// window. Idempotent: already-breached tickets are excluded by the candidate
// query. A failure on one ticket is logged and the sweep continues.
func (s *SLAService) RunSweep(ctx context.Context) (SweepResult, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return SweepResult{}, apperrors.MapError(err)
	}
	hours := cfg.SLAHours
	if hours <= 0 {
		hours = domain.DefaultAgentConfig().SLAHours
	}

	now := s.now()
	cutoff := now.Add(-time.Duration(hours * float64(time.Hour)))
	candidates, err := s.tickets.ListSLACandidates(ctx, cutoff)
	if err != nil {
		return SweepResult{}, apperrors.MapError(err)
	}

	for i := range candidates {
		ticket := &candidates[i]
		if err := s.breach(ctx, ticket, hours, now); err != nil {
			s.logger.Warn("sla sweep failed for ticket",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err),
			)
		}
	}
	return SweepResult{Checked: len(candidates)}, nil
}

func (s *SLAService) breach(ctx context.Context, ticket *domain.Ticket, hours float64, now time.Time) error {
	if err := s.tickets.MarkSLABreached(ctx, ticket.ID, now); err != nil {
		return err
	}
	ticket.SLABreached = true
	ticket.SLABreachedAt = &now
	s.metrics.RecordSLABreach()

	traceID := fmt.Sprintf("sla-%s-%d", ticket.ID, now.UnixMilli())
	s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepSLABreach,
		fmt.Sprintf("SLA breached after %gh", hours),
		domain.SLABreachMeta{Hours: hours})

	s.notifier.NotifyTicketUpdate(ctx, notify.TicketUpdate{
		Ticket:  ticket,
		Title:   "SLA breached",
		Message: fmt.Sprintf("Ticket exceeded SLA (%gh)", hours),
	})
	return nil
}
