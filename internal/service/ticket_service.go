package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Triager is the slice of the agent service the ticket workflows use for
// create-time auto-triage.
type Triager interface {
	Triage(ctx context.Context, input TriageInput) (*TriageResult, error)
}

// TicketService coordinates ticket workflows around the triage pipeline.
type TicketService struct {
	tickets  repository.TicketRepository
	users    repository.UserRepository
	kb       repository.KBRepository
	triager  Triager
	notifier Notifier
	logger   *zap.Logger
}

// TicketDependencies bundles what the ticket service needs.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	KBRepo     repository.KBRepository
	Triager    Triager
	Notifier   Notifier
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		kb:       deps.KBRepo,
		triager:  deps.Triager,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
}

// ReplyInput describes a reply to a ticket thread.
type ReplyInput struct {
	TicketID string
	AuthorID string
	Role     domain.Role
	Body     string
	KBRefs   []string
	// Status is the staff-requested status; ignored for customers.
	Status *domain.TicketStatus
}

// TicketDetail is the resolved view handed to the API: references joined at
// the orchestration boundary so the pipeline itself works on plain values.
type TicketDetail struct {
	Ticket     domain.Ticket
	Replies    []domain.TicketReply
	Owner      *domain.User
	Assignee   *domain.User
	Suggestion *domain.KBArticleRef
}

// CreateTicket persists a new open ticket and immediately runs auto-triage.
// The triage run is an enhancement: a failure there is logged and swallowed,
// never rolled back into the already-committed creation.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewMissingFields("title and description are required")
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !domain.ValidTicketCategory(category) {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": category})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: input.Description,
		Category:    category,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	result, err := s.triager.Triage(ctx, TriageInput{
		TicketID:          ticket.ID,
		AppendSystemReply: true,
	})
	if err != nil {
		s.logger.Warn("auto-triage on create failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return ticket, nil
	}
	return result.Ticket, nil
}

// GetTicket loads a ticket with replies and resolved references. Non-staff
// callers may only see their own tickets.
func (s *TicketService) GetTicket(ctx context.Context, callerID string, role domain.Role, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !role.IsStaff() && ticket.CreatedBy != callerID {
		return nil, apperrors.NewForbidden("access denied")
	}

	replies, err := s.tickets.ListReplies(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	detail := &TicketDetail{Ticket: *ticket, Replies: replies}
	if owner, err := s.users.GetByID(ctx, ticket.CreatedBy); err == nil {
		detail.Owner = owner
	}
	if ticket.AssigneeID != nil {
		if assignee, err := s.users.GetByID(ctx, *ticket.AssigneeID); err == nil {
			detail.Assignee = assignee
		}
	}
	if ticket.AgentSuggestion != nil {
		if article, err := s.kb.GetByID(ctx, *ticket.AgentSuggestion); err == nil {
			ref := article.Ref()
			detail.Suggestion = &ref
		}
	}
	return detail, nil
}

// ListTickets returns tickets visible to the caller: staff see everything,
// customers only their own.
func (s *TicketService) ListTickets(ctx context.Context, callerID string, role domain.Role, statuses []domain.TicketStatus, limit, offset int) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	}
	if !role.IsStaff() {
		filter.CreatedBy = &callerID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Reply appends a message to the ticket thread and applies the reply
// transition rules: a customer reply on a resolved or closed ticket reopens
// it into waiting_human; staff may set any valid status explicitly.
func (s *TicketService) Reply(ctx context.Context, input ReplyInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewMissingFields("reply body is required")
	}

	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.MapError(err)
	}

	staff := input.Role.IsStaff()
	if !staff && ticket.CreatedBy != input.AuthorID {
		return nil, apperrors.NewForbidden("users may only reply to their own tickets")
	}

	from := domain.ReplyFromUser
	if staff {
		from = domain.ReplyFromAgent
	}
	authorID := input.AuthorID
	reply := &domain.TicketReply{
		TicketID: ticket.ID,
		AuthorID: &authorID,
		From:     from,
		Body:     strings.TrimSpace(input.Body),
		KBRefs:   input.KBRefs,
	}
	if err := s.tickets.AppendReply(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}

	if staff {
		if input.Status != nil && domain.ValidTicketStatus(*input.Status) {
			ticket.Status = *input.Status
		}
	} else if ticket.Status == domain.TicketStatusResolved || ticket.Status == domain.TicketStatusClosed {
		ticket.Status = domain.TicketStatusWaitingHuman
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.notifier.NotifyTicketUpdate(ctx, notify.TicketUpdate{
		Ticket:  ticket,
		Title:   "New reply",
		Message: fmt.Sprintf("Ticket %q has a new reply.", ticket.Title),
	})
	return ticket, nil
}

// Assign sets the assignee and moves the ticket to triaged.
func (s *TicketService) Assign(ctx context.Context, ticketID, assigneeID string) (*domain.Ticket, error) {
	if assigneeID == "" {
		return nil, apperrors.NewMissingFields("assigneeId is required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be staff", map[string]any{"user_id": assigneeID})
	}

	ticket.AssigneeID = &assignee.ID
	ticket.Status = domain.TicketStatusTriaged
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.notifier.NotifyTicketUpdate(ctx, notify.TicketUpdate{
		Ticket:  ticket,
		Title:   "Ticket assigned",
		Message: fmt.Sprintf("Ticket %q was assigned to %s.", ticket.Title, assignee.Name),
	})
	return ticket, nil
}

// Reopen moves the ticket back to open.
func (s *TicketService) Reopen(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.setStatus(ctx, ticketID, domain.TicketStatusOpen, "Ticket reopened")
}

// Close moves the ticket to closed.
func (s *TicketService) Close(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.setStatus(ctx, ticketID, domain.TicketStatusClosed, "Ticket closed")
}

func (s *TicketService) setStatus(ctx context.Context, ticketID string, status domain.TicketStatus, title string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Status = status
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.notifier.NotifyTicketUpdate(ctx, notify.TicketUpdate{
		Ticket:  ticket,
		Title:   title,
		Message: fmt.Sprintf("Ticket %q is now %s.", ticket.Title, ticket.Status),
	})
	return ticket, nil
}
