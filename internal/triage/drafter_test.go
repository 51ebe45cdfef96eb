package triage

import (
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestDraftReply(t *testing.T) {
	t.Parallel()

	articles := []domain.KBArticleRef{
		{ID: "a1", Title: "How refunds work"},
		{ID: "a2", Title: "Updating payment methods"},
	}

	got := DraftReply("Ada", articles)

	if !strings.HasPrefix(got, "Hello Ada,") {
		t.Errorf("greeting missing, got %q", got)
	}
	if !strings.Contains(got, "- How refunds work\n- Updating payment methods") {
		t.Errorf("articles not listed in order, got %q", got)
	}
	if !strings.HasSuffix(got, "Best regards,\nSmart Helpdesk") {
		t.Errorf("closing missing, got %q", got)
	}
}

func TestDraftReplyUnknownRequester(t *testing.T) {
	t.Parallel()

	got := DraftReply("", nil)
	if !strings.HasPrefix(got, "Hello ,") {
		t.Errorf("expected blank-name greeting, got %q", got)
	}
}

func TestDraftReplyDeterministic(t *testing.T) {
	t.Parallel()

	articles := []domain.KBArticleRef{{ID: "a1", Title: "VPN setup"}}
	first := DraftReply("Sam", articles)
	for i := 0; i < 10; i++ {
		if got := DraftReply("Sam", articles); got != first {
			t.Fatal("DraftReply is not deterministic")
		}
	}
}
