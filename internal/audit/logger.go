// Package audit records the immutable step trail of triage invocations.
package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Logger appends step records correlated by trace id. A failed write is
// reported to the caller, who treats it as non-fatal for the remaining
// pipeline except on the final error path.
type Logger struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

// NewLogger builds the audit logger.
func NewLogger(repo repository.AuditLogRepository, logger *zap.Logger) *Logger {
	return &Logger{repo: repo, logger: logger}
}

// NewTraceID returns a fresh globally-unique trace id for one triage
// invocation. Used when the caller did not supply one.
func NewTraceID() string {
	return uuid.NewString()
}

// LogStep appends one immutable entry. meta may be nil; its concrete type
// carries the step's payload schema.
func (l *Logger) LogStep(ctx context.Context, traceID, ticketID string, step domain.AuditStep, message string, meta domain.StepMetadata) error {
	var payload json.RawMessage
	if meta != nil {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		payload = encoded
	}

	entry := &domain.AuditLogEntry{
		TraceID:  traceID,
		TicketID: ticketID,
		Step:     step,
		Message:  message,
		Metadata: payload,
	}
	return l.repo.Create(ctx, entry)
}

// TryLogStep is LogStep with the failure swallowed and logged. Used where a
// broken audit write must not break the pipeline.
func (l *Logger) TryLogStep(ctx context.Context, traceID, ticketID string, step domain.AuditStep, message string, meta domain.StepMetadata) {
	if err := l.LogStep(ctx, traceID, ticketID, step, message, meta); err != nil {
		l.logger.Warn("audit log write failed",
			zap.String("trace_id", traceID),
			zap.String("ticket_id", ticketID),
			zap.String("step", string(step)),
			zap.Error(err),
		)
	}
}

// GetTicketTrail returns a ticket's entries ascending by creation time.
func (l *Logger) GetTicketTrail(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	return l.repo.ListByTicket(ctx, ticketID)
}
