package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category,omitempty"`
}

// ReplyRequest payload. Status is honored for staff callers only.
type ReplyRequest struct {
	Body   string               `json:"body"`
	KBRefs []string             `json:"kbRefs,omitempty"`
	Status *domain.TicketStatus `json:"status,omitempty"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assigneeId"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Category        domain.TicketCategory `json:"category"`
	Status          domain.TicketStatus   `json:"status"`
	CreatedBy       string                `json:"createdBy"`
	AssigneeID      *string               `json:"assigneeId"`
	AgentSuggestion *string               `json:"agentSuggestionId"`
	SLABreached     bool                  `json:"slaBreached"`
	SLABreachedAt   *time.Time            `json:"slaBreachedAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ReplyResponse represents one thread entry.
type ReplyResponse struct {
	ID        string                 `json:"id"`
	AuthorID  *string                `json:"authorId"`
	From      domain.ReplyAuthorType `json:"from"`
	Body      string                 `json:"body"`
	KBRefs    []string               `json:"kbRefs,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// TicketDetailResponse provides the full ticket view with resolved
// references.
type TicketDetailResponse struct {
	TicketSummary
	Replies    []ReplyResponse     `json:"replies"`
	Owner      *UserResponse       `json:"owner,omitempty"`
	Assignee   *UserResponse       `json:"assignee,omitempty"`
	Suggestion *ArticleRefResponse `json:"suggestion,omitempty"`
}

// AuditEntryResponse is one step of a ticket's triage trail.
type AuditEntryResponse struct {
	ID        string           `json:"id"`
	TraceID   string           `json:"traceId"`
	TicketID  string           `json:"ticketId"`
	Step      domain.AuditStep `json:"step"`
	Message   string           `json:"message"`
	Metadata  json.RawMessage  `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewTicketSummary converts a domain ticket to its response shape.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        ticket.Category,
		Status:          ticket.Status,
		CreatedBy:       ticket.CreatedBy,
		AssigneeID:      ticket.AssigneeID,
		AgentSuggestion: ticket.AgentSuggestion,
		SLABreached:     ticket.SLABreached,
		SLABreachedAt:   ticket.SLABreachedAt,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

// NewReplyResponse converts a domain reply.
func NewReplyResponse(reply *domain.TicketReply) ReplyResponse {
	return ReplyResponse{
		ID:        reply.ID,
		AuthorID:  reply.AuthorID,
		From:      reply.From,
		Body:      reply.Body,
		KBRefs:    reply.KBRefs,
		CreatedAt: reply.CreatedAt,
	}
}

// NewAuditEntryResponse converts a domain audit entry.
func NewAuditEntryResponse(entry *domain.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		TraceID:   entry.TraceID,
		TicketID:  entry.TicketID,
		Step:      entry.Step,
		Message:   entry.Message,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}
