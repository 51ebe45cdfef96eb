package domain

import (
	"encoding/json"
	"time"
)

// AuditStep tags the pipeline stage an audit entry belongs to.
type AuditStep string

const (
	StepStart       AuditStep = "start"
	StepClassify    AuditStep = "classify"
	StepKBSearch    AuditStep = "kb_search"
	StepDraftReply  AuditStep = "draft_reply"
	StepAutoResolve AuditStep = "auto_resolve"
	StepAssignHuman AuditStep = "assign_human"
	StepSLABreach   AuditStep = "sla_breach"
	StepError       AuditStep = "error"
)

// StepMetadata is the tagged union of per-step payloads. Each pipeline stage
// writes its own variant; the step tag on the entry identifies the schema.
type StepMetadata interface {
	AuditStep() AuditStep
}

// StartMeta records the parameters a triage invocation started with.
type StartMeta struct {
	AutoClose           bool    `json:"autoClose"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
}

func (StartMeta) AuditStep() AuditStep { return StepStart }

// ClassifyMeta records the classifier outcome.
type ClassifyMeta struct {
	Category   TicketCategory `json:"category"`
	Confidence float64        `json:"confidence"`
}

func (ClassifyMeta) AuditStep() AuditStep { return StepClassify }

// KBSearchMeta summarizes the retrieved articles.
type KBSearchMeta struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

func (KBSearchMeta) AuditStep() AuditStep { return StepKBSearch }

// DraftReplyMeta records the draft length, not its content, to keep the
// trail compact.
type DraftReplyMeta struct {
	Length int `json:"length"`
}

func (DraftReplyMeta) AuditStep() AuditStep { return StepDraftReply }

// DecisionMeta records the category applied by the decision step.
type DecisionMeta struct {
	Category TicketCategory `json:"category,omitempty"`
}

func (DecisionMeta) AuditStep() AuditStep { return StepAutoResolve }

// SLABreachMeta records the window that was exceeded.
type SLABreachMeta struct {
	Hours float64 `json:"hours"`
}

func (SLABreachMeta) AuditStep() AuditStep { return StepSLABreach }

// ErrorMeta records a pipeline failure message.
type ErrorMeta struct {
	Message string `json:"message"`
}

func (ErrorMeta) AuditStep() AuditStep { return StepError }

// AuditLogEntry is one immutable step record of a triage invocation,
// correlated by trace id and ordered by creation time per ticket.
type AuditLogEntry struct {
	ID        string
	TraceID   string
	TicketID  string
	Step      AuditStep
	Message   string
	Metadata  json.RawMessage
	CreatedAt time.Time
}
