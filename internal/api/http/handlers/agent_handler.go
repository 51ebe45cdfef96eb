package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AgentHandler exposes the triage pipeline to staff.
type AgentHandler struct {
	service *service.AgentService
}

// NewAgentHandler constructs handler.
func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{service: agentService}
}

// Triage POST /api/agent/triage.
func (h *AgentHandler) Triage(c *fiber.Ctx) error {
	var req dto.TriageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.Triage(c.Context(), service.TriageInput{
		TicketID:            req.TicketID,
		AutoClose:           req.AutoClose,
		ConfidenceThreshold: req.ConfidenceThreshold,
		TraceID:             req.TraceID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TriageResponse{
		TraceID: result.TraceID,
		Action:  string(result.Action),
		Classification: dto.ClassificationResponse{
			Category:   result.Classification.Category,
			Confidence: result.Classification.Confidence,
		},
		Articles: articleRefs(result.Articles),
		Reply:    result.Reply,
		Ticket:   dto.NewTicketSummary(result.Ticket),
	}})
}

// Suggestion POST /api/agent/suggestion.
func (h *AgentHandler) Suggestion(c *fiber.Ctx) error {
	var req dto.SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	suggestion, err := h.service.GetSuggestion(c.Context(), req.TicketID, req.TraceID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestionResponse{
		TraceID: suggestion.TraceID,
		Classification: dto.ClassificationResponse{
			Category:   suggestion.Classification.Category,
			Confidence: suggestion.Classification.Confidence,
		},
		Articles: articleRefs(suggestion.Articles),
		Reply:    suggestion.Reply,
	}})
}

func articleRefs(refs []domain.KBArticleRef) []dto.ArticleRefResponse {
	out := make([]dto.ArticleRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, dto.NewArticleRefResponse(ref))
	}
	return out
}
