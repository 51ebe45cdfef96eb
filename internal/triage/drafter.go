package triage

import (
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DraftReply composes the templated agent reply: a greeting by requester
// name (blank when unknown), the retrieved article titles as bullets in the
// order given, and a fixed closing. Pure, no I/O.
func DraftReply(requesterName string, articles []domain.KBArticleRef) string {
	var b strings.Builder

	b.WriteString("Hello " + requesterName + ",\n\n")
	b.WriteString("Thanks for reaching out. Based on your message, here are some helpful articles:\n")
	for _, a := range articles {
		b.WriteString("- " + a.Title + "\n")
	}
	b.WriteString("\nIf this resolves your issue, we will close the ticket. Otherwise, reply and a human agent will assist you.\n")
	b.WriteString("\nBest regards,\nSmart Helpdesk")

	return b.String()
}
