// Package notify implements the at-most-once notification fan-out that
// accompanies ticket state changes.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// TicketUpdate describes one logical notification event.
type TicketUpdate struct {
	Ticket  *domain.Ticket
	Title   string
	Message string
}

// Dispatcher deduplicates and fans a ticket-update event out to the
// ticket's owner and assignee: one persisted notification each, a realtime
// push, and a best-effort email.
type Dispatcher struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	cache         DedupCache
	hub           Hub
	mailer        Mailer
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewDispatcher wires the dispatcher. cache is constructed once per process
// and injected; it is the only shared mutable state the pipeline touches.
func NewDispatcher(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	cache DedupCache,
	hub Hub,
	mailer Mailer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		cache:         cache,
		hub:           hub,
		mailer:        mailer,
		metrics:       metrics,
		logger:        logger,
	}
}

// dedupKey builds the equality key for one logical event. Plain
// concatenation: only equality matters, not the hash shape.
func dedupKey(ticketID, title, message string) string {
	return ticketID + ":" + title + ":" + message
}

// NotifyTicketUpdate dispatches update once per dedup window. A repeated
// call with the same (ticket, title, message) inside the TTL is an
// idempotent no-op. The key is recorded before any I/O so a concurrent
// same-key call cannot double-dispatch. Failures never propagate to the
// triage pipeline.
func (d *Dispatcher) NotifyTicketUpdate(ctx context.Context, update TicketUpdate) {
	if update.Ticket == nil {
		return
	}

	key := dedupKey(update.Ticket.ID, update.Title, update.Message)
	acquired, err := d.cache.Acquire(ctx, key, DedupTTL)
	if err != nil {
		// A broken dedup backend should not silence notifications;
		// dispatch and accept a possible duplicate.
		d.logger.Warn("dedup cache unavailable", zap.Error(err))
	} else if !acquired {
		d.metrics.RecordNotificationDeduplicated()
		d.logger.Debug("skipping duplicate notification", zap.String("key", key))
		return
	}

	for _, userID := range d.targets(update.Ticket) {
		d.dispatchTo(ctx, userID, update)
	}
}

// targets returns the distinct recipients: owner and assignee, nil skipped.
func (d *Dispatcher) targets(ticket *domain.Ticket) []string {
	targets := []string{ticket.CreatedBy}
	if ticket.AssigneeID != nil && *ticket.AssigneeID != ticket.CreatedBy {
		targets = append(targets, *ticket.AssigneeID)
	}
	return targets
}

func (d *Dispatcher) dispatchTo(ctx context.Context, userID string, update TicketUpdate) {
	ticketID := update.Ticket.ID
	notification := &domain.Notification{
		UserID:   userID,
		Type:     domain.NotificationTicketUpdate,
		Title:    update.Title,
		Message:  update.Message,
		TicketID: &ticketID,
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		d.logger.Warn("persist notification failed",
			zap.String("user_id", userID),
			zap.String("ticket_id", ticketID),
			zap.Error(err),
		)
		return
	}
	d.metrics.RecordNotificationSent()

	d.hub.Publish(userID, Event{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		TicketID:  notification.TicketID,
		CreatedAt: notification.CreatedAt,
	})

	// Email is fire-and-forget: a failure is logged and swallowed.
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		d.logger.Debug("skip email, user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if user.Email == "" {
		return
	}
	if err := d.mailer.Send(ctx, user.Email, update.Title, update.Message); err != nil {
		d.logger.Debug("email send failed", zap.String("user_id", userID), zap.Error(err))
	}
}
