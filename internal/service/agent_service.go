package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/triage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// kbQueryLimit caps the text handed to the knowledge base search.
const kbQueryLimit = 200

// kbResultLimit is the number of articles retrieved per triage.
const kbResultLimit = 3

// TriageAction is the decision the pipeline arrived at.
type TriageAction string

const (
	ActionAutoResolve TriageAction = "auto_resolve"
	ActionAssignHuman TriageAction = "assign_human"
)

// Notifier is the dispatch capability the pipeline needs.
type Notifier interface {
	NotifyTicketUpdate(ctx context.Context, update notify.TicketUpdate)
}

// TriageInput parameterizes one triage invocation. AutoClose and
// ConfidenceThreshold override the stored agent config when set; TraceID is
// generated when empty. AppendSystemReply is set on the create-time path so
// an auto-resolved ticket carries the drafted answer in its thread.
type TriageInput struct {
	TicketID            string
	AutoClose           *bool
	ConfidenceThreshold *float64
	TraceID             string
	AppendSystemReply   bool
}

// TriageResult is returned to the caller after the pipeline completes.
type TriageResult struct {
	TraceID        string
	Action         TriageAction
	Classification triage.Classification
	Articles       []domain.KBArticleRef
	Reply          string
	Ticket         *domain.Ticket
}

// Suggestion is the read-only variant's result: no ticket mutation happened.
type Suggestion struct {
	TraceID        string
	Classification triage.Classification
	Articles       []domain.KBArticleRef
	Reply          string
}

// AgentService runs the triage pipeline: classify, search the knowledge
// base, draft a reply, decide between auto-resolve and human assignment,
// persist, and notify. Every stage leaves an audit record.
type AgentService struct {
	classifier *triage.Classifier
	tickets    repository.TicketRepository
	kb         repository.KBRepository
	users      repository.UserRepository
	config     repository.ConfigRepository
	auditor    *audit.Logger
	notifier   Notifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AgentDependencies bundles what the agent service needs.
type AgentDependencies struct {
	TicketRepo repository.TicketRepository
	KBRepo     repository.KBRepository
	UserRepo   repository.UserRepository
	ConfigRepo repository.ConfigRepository
	Auditor    *audit.Logger
	Notifier   Notifier
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAgentService constructs the service with the production rule set.
func NewAgentService(deps AgentDependencies) *AgentService {
	return &AgentService{
		classifier: triage.NewClassifier(triage.DefaultRules()),
		tickets:    deps.TicketRepo,
		kb:         deps.KBRepo,
		users:      deps.UserRepo,
		config:     deps.ConfigRepo,
		auditor:    deps.Auditor,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Triage runs the full pipeline against a ticket. Precondition failures
// (missing ticket id, unknown ticket) return immediately without touching
// the audit trail; failures past that point are logged as an "error" step
// and surfaced as INTERNAL_ERROR, never as a partial success.
func (s *AgentService) Triage(ctx context.Context, input TriageInput) (*TriageResult, error) {
	if input.TicketID == "" {
		return nil, apperrors.NewMissingFields("ticketId is required")
	}

	traceID := input.TraceID
	if traceID == "" {
		traceID = audit.NewTraceID()
	}

	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, s.fail(ctx, traceID, input.TicketID, err)
	}

	autoClose, threshold, err := s.effectiveConfig(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, traceID, ticket.ID, err)
	}

	s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepStart, "Starting triage",
		domain.StartMeta{AutoClose: autoClose, ConfidenceThreshold: threshold})

	classification, articles, reply := s.runPipeline(ctx, traceID, ticket)

	result := &TriageResult{
		TraceID:        traceID,
		Classification: classification,
		Articles:       articles,
		Reply:          reply,
	}

	ticket.Category = classification.Category
	ticket.AgentSuggestion = nil
	if len(articles) > 0 {
		suggestion := articles[0].ID
		ticket.AgentSuggestion = &suggestion
	}

	if autoClose && classification.Confidence >= threshold {
		result.Action = ActionAutoResolve
		ticket.Status = domain.TicketStatusResolved
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, s.fail(ctx, traceID, ticket.ID, err)
		}
		if input.AppendSystemReply {
			kbRefs := make([]string, 0, len(articles))
			for _, a := range articles {
				kbRefs = append(kbRefs, a.ID)
			}
			systemReply := &domain.TicketReply{
				TicketID: ticket.ID,
				From:     domain.ReplyFromSystem,
				Body:     reply,
				KBRefs:   kbRefs,
			}
			if err := s.tickets.AppendReply(ctx, systemReply); err != nil {
				return nil, s.fail(ctx, traceID, ticket.ID, err)
			}
		}
		s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepAutoResolve, "Auto resolved ticket",
			domain.DecisionMeta{Category: classification.Category})
	} else {
		result.Action = ActionAssignHuman
		// Only an open ticket moves to triaged; later states are left alone.
		if ticket.Status == domain.TicketStatusOpen {
			ticket.Status = domain.TicketStatusTriaged
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, s.fail(ctx, traceID, ticket.ID, err)
		}
		s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepAssignHuman, "Assigned to human agent", nil)
	}

	result.Ticket = ticket
	s.metrics.RecordTriage(string(result.Action))

	title, message := notificationText(result.Action, ticket)
	s.notifier.NotifyTicketUpdate(ctx, notify.TicketUpdate{Ticket: ticket, Title: title, Message: message})

	return result, nil
}

// GetSuggestion runs classify, search and draft without mutating the
// ticket. The pipeline steps still land in the audit trail under the
// returned trace id.
func (s *AgentService) GetSuggestion(ctx context.Context, ticketID, traceID string) (*Suggestion, error) {
	if ticketID == "" {
		return nil, apperrors.NewMissingFields("ticketId is required")
	}
	if traceID == "" {
		traceID = audit.NewTraceID()
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, s.fail(ctx, traceID, ticketID, err)
	}

	classification, articles, reply := s.runPipeline(ctx, traceID, ticket)
	return &Suggestion{
		TraceID:        traceID,
		Classification: classification,
		Articles:       articles,
		Reply:          reply,
	}, nil
}

// runPipeline executes the pure stages shared by Triage and GetSuggestion:
// classify, knowledge base lookup, draft. Classify and search have no data
// dependency on each other but run sequentially; outcomes are identical.
func (s *AgentService) runPipeline(ctx context.Context, traceID string, ticket *domain.Ticket) (triage.Classification, []domain.KBArticleRef, string) {
	classification := s.classifier.Classify(ticket.Title + "\n" + ticket.Description)
	s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepClassify, "Classified category",
		domain.ClassifyMeta{Category: classification.Category, Confidence: classification.Confidence})

	query := truncate(ticket.Title+" "+ticket.Description, kbQueryLimit)
	articles, err := s.kb.Search(ctx, query, kbResultLimit)
	if err != nil {
		// A broken search degrades the suggestion, it does not abort triage.
		s.logger.Warn("kb search failed", zap.String("trace_id", traceID), zap.Error(err))
		articles = []domain.KBArticleRef{}
	}
	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepKBSearch, "Retrieved top KB articles",
		domain.KBSearchMeta{Count: len(articles), IDs: ids})

	reply := triage.DraftReply(s.requesterName(ctx, ticket.CreatedBy), articles)
	s.auditor.TryLogStep(ctx, traceID, ticket.ID, domain.StepDraftReply, "Drafted reply",
		domain.DraftReplyMeta{Length: len(reply)})

	return classification, articles, reply
}

// effectiveConfig merges per-request overrides over the stored singleton,
// read fresh so admin edits apply to this invocation.
func (s *AgentService) effectiveConfig(ctx context.Context, input TriageInput) (bool, float64, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return false, 0, err
	}
	autoClose := cfg.AutoCloseEnabled
	if input.AutoClose != nil {
		autoClose = *input.AutoClose
	}
	threshold := cfg.ConfidenceThreshold
	if input.ConfidenceThreshold != nil {
		threshold = *input.ConfidenceThreshold
	}
	return autoClose, threshold, nil
}

// requesterName resolves the ticket owner's name for the greeting. Lookup
// failures degrade to an empty name.
func (s *AgentService) requesterName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.Name
}

// fail records the error step best-effort and reports a generic internal
// failure to the caller.
func (s *AgentService) fail(ctx context.Context, traceID, ticketID string, cause error) error {
	s.auditor.TryLogStep(ctx, traceID, ticketID, domain.StepError, "Triage failed",
		domain.ErrorMeta{Message: cause.Error()})
	s.logger.Error("triage failed", zap.String("trace_id", traceID), zap.String("ticket_id", ticketID), zap.Error(cause))
	return apperrors.NewInternalError(cause)
}

func notificationText(action TriageAction, ticket *domain.Ticket) (string, string) {
	if action == ActionAutoResolve {
		return "Ticket resolved", fmt.Sprintf("Your ticket %q was resolved automatically.", ticket.Title)
	}
	return "Ticket triaged", fmt.Sprintf("Your ticket %q was triaged and is awaiting an agent.", ticket.Title)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// cut on a rune boundary
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
