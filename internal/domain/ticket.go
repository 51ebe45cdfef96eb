package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusTriaged      TicketStatus = "triaged"
	TicketStatusWaitingHuman TicketStatus = "waiting_human"
	TicketStatusResolved     TicketStatus = "resolved"
	TicketStatusClosed       TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is a known lifecycle state.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusTriaged, TicketStatusWaitingHuman, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketCategory enumerates triage categories.
type TicketCategory string

const (
	CategoryBilling  TicketCategory = "billing"
	CategoryTech     TicketCategory = "tech"
	CategoryShipping TicketCategory = "shipping"
	CategoryAccount  TicketCategory = "account"
	CategoryOther    TicketCategory = "other"
)

// ValidTicketCategory reports whether c is a known category.
func ValidTicketCategory(c TicketCategory) bool {
	switch c {
	case CategoryBilling, CategoryTech, CategoryShipping, CategoryAccount, CategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Replies are owned by the
// ticket; owner, assignee and agent suggestion are references by id only.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	Category        TicketCategory
	Status          TicketStatus
	CreatedBy       string
	AssigneeID      *string
	AgentSuggestion *string
	SLABreached     bool
	SLABreachedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReplyAuthorType indicates who authored a reply.
type ReplyAuthorType string

const (
	ReplyFromUser   ReplyAuthorType = "user"
	ReplyFromAgent  ReplyAuthorType = "agent"
	ReplyFromSystem ReplyAuthorType = "system"
)

// TicketReply is one entry of a ticket's conversation thread.
type TicketReply struct {
	ID        string
	TicketID  string
	AuthorID  *string
	From      ReplyAuthorType
	Body      string
	KBRefs    []string
	CreatedAt time.Time
}
