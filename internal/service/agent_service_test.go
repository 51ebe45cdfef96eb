package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

type agentFixture struct {
	svc       *AgentService
	tickets   *fakeTicketRepo
	kb        *fakeKBRepo
	config    *fakeConfigRepo
	auditRepo *fakeAuditRepo
	notifier  *fakeNotifier
}

func newAgentFixture(cfg domain.AgentConfig, refs ...domain.KBArticleRef) *agentFixture {
	tickets := newFakeTicketRepo()
	kb := newFakeKBRepo(refs...)
	users := newFakeUserRepo(domain.User{ID: "user-1", Name: "Dana", Email: "dana@example.com", Role: domain.RoleUser})
	configRepo := &fakeConfigRepo{cfg: cfg}
	auditRepo := &fakeAuditRepo{}
	notifier := &fakeNotifier{}
	logger := zap.NewNop()

	svc := NewAgentService(AgentDependencies{
		TicketRepo: tickets,
		KBRepo:     kb,
		UserRepo:   users,
		ConfigRepo: configRepo,
		Auditor:    audit.NewLogger(auditRepo, logger),
		Notifier:   notifier,
		Logger:     logger,
	})
	return &agentFixture{svc: svc, tickets: tickets, kb: kb, config: configRepo, auditRepo: auditRepo, notifier: notifier}
}

func TestTriageAutoResolvesConfidentTicket(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(
		domain.AgentConfig{AutoCloseEnabled: true, ConfidenceThreshold: 0.5, SLAHours: 72},
		domain.KBArticleRef{ID: "kb-1", Title: "Refund policy"},
		domain.KBArticleRef{ID: "kb-2", Title: "Billing FAQ"},
	)
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Refund for double charge",
		Description: "I was charged twice for my subscription refund please",
		Category:    domain.CategoryOther,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})

	result, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: ticket.ID, AppendSystemReply: true})
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if result.Action != ActionAutoResolve {
		t.Fatalf("action = %s, want %s", result.Action, ActionAutoResolve)
	}
	if result.Classification.Category != domain.CategoryBilling {
		t.Errorf("category = %s, want billing", result.Classification.Category)
	}
	if result.Classification.Confidence < 0.5 {
		t.Errorf("confidence = %v, want >= threshold", result.Classification.Confidence)
	}

	stored := fx.tickets.get(ticket.ID)
	if stored.Status != domain.TicketStatusResolved {
		t.Errorf("status = %s, want resolved", stored.Status)
	}
	if stored.AgentSuggestion == nil || *stored.AgentSuggestion != "kb-1" {
		t.Errorf("agent suggestion = %v, want kb-1", stored.AgentSuggestion)
	}

	replies, _ := fx.tickets.ListReplies(context.Background(), ticket.ID)
	if len(replies) != 1 || replies[0].From != domain.ReplyFromSystem {
		t.Fatalf("expected one system reply, got %v", replies)
	}
	if replies[0].Body != result.Reply {
		t.Errorf("system reply body does not match drafted reply")
	}

	want := []domain.AuditStep{domain.StepStart, domain.StepClassify, domain.StepKBSearch, domain.StepDraftReply, domain.StepAutoResolve}
	got := fx.auditRepo.steps()
	if len(got) != len(want) {
		t.Fatalf("audit steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("audit steps = %v, want %v", got, want)
		}
	}

	sent := fx.notifier.sent()
	if len(sent) != 1 || sent[0].Title != "Ticket resolved" {
		t.Fatalf("notifications = %v, want one resolved notice", sent)
	}
}

func TestTriageAssignsHumanBelowThreshold(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: true, ConfidenceThreshold: 0.9, SLAHours: 72},
		domain.KBArticleRef{ID: "kb-9", Title: "Login help"})
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Cannot login",
		Description: "login fails after update",
		Category:    domain.CategoryOther,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})

	result, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: ticket.ID})
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if result.Action != ActionAssignHuman {
		t.Fatalf("action = %s, want %s", result.Action, ActionAssignHuman)
	}

	stored := fx.tickets.get(ticket.ID)
	if stored.Status != domain.TicketStatusTriaged {
		t.Errorf("status = %s, want triaged", stored.Status)
	}
	if stored.Category != domain.CategoryTech {
		t.Errorf("category = %s, want tech", stored.Category)
	}

	steps := fx.auditRepo.steps()
	if steps[len(steps)-1] != domain.StepAssignHuman {
		t.Errorf("final step = %s, want assign_human", steps[len(steps)-1])
	}
	sent := fx.notifier.sent()
	if len(sent) != 1 || sent[0].Title != "Ticket triaged" {
		t.Fatalf("notifications = %v, want one triaged notice", sent)
	}
}

func TestTriageOverridesBeatStoredConfig(t *testing.T) {
	t.Parallel()

	// Stored config would assign a human; the per-request override resolves.
	fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: false, ConfidenceThreshold: 0.99, SLAHours: 72},
		domain.KBArticleRef{ID: "kb-1", Title: "Refund policy"})
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Wrong invoice",
		Description: "billing refund needed",
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})

	result, err := fx.svc.Triage(context.Background(), TriageInput{
		TicketID:            ticket.ID,
		AutoClose:           boolPtr(true),
		ConfidenceThreshold: floatPtr(0.5),
	})
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if result.Action != ActionAutoResolve {
		t.Fatalf("action = %s, want auto_resolve via override", result.Action)
	}
}

func TestTriageLeavesLaterStatesAlone(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.TicketStatus{
		domain.TicketStatusWaitingHuman,
		domain.TicketStatusTriaged,
	} {
		fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: false, ConfidenceThreshold: 0.7, SLAHours: 72})
		ticket := fx.tickets.seed(domain.Ticket{
			Title:       "Shipping delay",
			Description: "package tracking stuck",
			Status:      status,
			CreatedBy:   "user-1",
		})

		result, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: ticket.ID})
		if err != nil {
			t.Fatalf("Triage(%s): %v", status, err)
		}
		if result.Action != ActionAssignHuman {
			t.Fatalf("action = %s, want assign_human", result.Action)
		}
		if got := fx.tickets.get(ticket.ID).Status; got != status {
			t.Errorf("status moved from %s to %s, want unchanged", status, got)
		}
	}
}

func TestTriageMissingTicketID(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{ConfidenceThreshold: 0.7, SLAHours: 72})
	_, err := fx.svc.Triage(context.Background(), TriageInput{})
	if !apperrors.IsCode(err, "MISSING_FIELDS") {
		t.Fatalf("err = %v, want MISSING_FIELDS", err)
	}
	if len(fx.auditRepo.steps()) != 0 {
		t.Errorf("audit trail written for rejected input")
	}
}

func TestTriageUnknownTicket(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{ConfidenceThreshold: 0.7, SLAHours: 72})
	_, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: "nope"})
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if len(fx.auditRepo.steps()) != 0 {
		t.Errorf("audit trail written for unknown ticket")
	}
}

func TestTriagePersistFailureRecordsErrorStep(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: false, ConfidenceThreshold: 0.7, SLAHours: 72})
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Broken install",
		Description: "installer crash",
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})
	fx.tickets.updateErr = context.DeadlineExceeded

	_, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: ticket.ID})
	if !apperrors.IsCode(err, "INTERNAL_ERROR") {
		t.Fatalf("err = %v, want INTERNAL_ERROR", err)
	}

	steps := fx.auditRepo.steps()
	if len(steps) == 0 || steps[len(steps)-1] != domain.StepError {
		t.Fatalf("audit steps = %v, want error step last", steps)
	}
	if len(fx.notifier.sent()) != 0 {
		t.Errorf("notification sent for failed triage")
	}
}

func TestTriageSearchFailureDegrades(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: true, ConfidenceThreshold: 0.2, SLAHours: 72})
	fx.kb.searchErr = context.DeadlineExceeded
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Invoice question",
		Description: "billing invoice question",
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})

	result, err := fx.svc.Triage(context.Background(), TriageInput{TicketID: ticket.ID})
	if err != nil {
		t.Fatalf("Triage: %v", err)
	}
	if len(result.Articles) != 0 {
		t.Errorf("articles = %v, want none on search failure", result.Articles)
	}
	if result.Reply == "" {
		t.Errorf("reply still expected without articles")
	}
	if got := fx.tickets.get(ticket.ID).AgentSuggestion; got != nil {
		t.Errorf("agent suggestion = %v, want nil", got)
	}
}

func TestGetSuggestionDoesNotMutate(t *testing.T) {
	t.Parallel()

	fx := newAgentFixture(domain.AgentConfig{AutoCloseEnabled: true, ConfidenceThreshold: 0.1, SLAHours: 72},
		domain.KBArticleRef{ID: "kb-1", Title: "Refund policy"})
	ticket := fx.tickets.seed(domain.Ticket{
		Title:       "Refund please",
		Description: "refund my payment",
		Category:    domain.CategoryOther,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   "user-1",
	})

	suggestion, err := fx.svc.GetSuggestion(context.Background(), ticket.ID, "")
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if suggestion.Classification.Category != domain.CategoryBilling {
		t.Errorf("category = %s, want billing", suggestion.Classification.Category)
	}
	if suggestion.TraceID == "" {
		t.Errorf("trace id missing")
	}

	stored := fx.tickets.get(ticket.ID)
	if stored.Status != domain.TicketStatusOpen || stored.Category != domain.CategoryOther {
		t.Errorf("suggestion mutated the ticket: %+v", stored)
	}
	if len(fx.notifier.sent()) != 0 {
		t.Errorf("suggestion dispatched notifications")
	}
}
