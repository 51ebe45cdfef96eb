package dto

import (
	"github.com/spec-kit/helpdesk/internal/domain"
)

// TriageRequest payload. AutoClose and ConfidenceThreshold override the
// stored agent config for this run only.
type TriageRequest struct {
	TicketID            string   `json:"ticketId"`
	AutoClose           *bool    `json:"autoClose,omitempty"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty"`
	TraceID             string   `json:"traceId,omitempty"`
}

// SuggestionRequest payload.
type SuggestionRequest struct {
	TicketID string `json:"ticketId"`
	TraceID  string `json:"traceId,omitempty"`
}

// ClassificationResponse carries the predicted category and its score.
type ClassificationResponse struct {
	Category   domain.TicketCategory `json:"category"`
	Confidence float64               `json:"confidence"`
}

// TriageResponse reports the pipeline outcome.
type TriageResponse struct {
	TraceID        string                 `json:"traceId"`
	Action         string                 `json:"action"`
	Classification ClassificationResponse `json:"classification"`
	Articles       []ArticleRefResponse   `json:"articles"`
	Reply          string                 `json:"reply"`
	Ticket         TicketSummary          `json:"ticket"`
}

// SuggestionResponse is the read-only pipeline result.
type SuggestionResponse struct {
	TraceID        string                 `json:"traceId"`
	Classification ClassificationResponse `json:"classification"`
	Articles       []ArticleRefResponse   `json:"articles"`
	Reply          string                 `json:"reply"`
}
