package domain

import "time"

// NotificationType classifies notifications for the consumer UI.
type NotificationType string

const (
	NotificationTicketUpdate NotificationType = "ticket_update"
)

// Notification is owned by the recipient user. Created by the dispatcher,
// mutated only by mark-as-read.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	TicketID  *string
	IsRead    bool
	CreatedAt time.Time
}
