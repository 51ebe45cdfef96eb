package triage

import (
	"testing"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultRules())

	tests := []struct {
		name           string
		text           string
		wantCategory   domain.TicketCategory
		wantConfidence float64
	}{
		{
			name:           "billing with three hits",
			text:           "My invoice charge was wrong, please refund",
			wantCategory:   domain.CategoryBilling,
			wantConfidence: 1.0,
		},
		{
			name:           "single tech hit",
			text:           "I hit an error during setup",
			wantCategory:   domain.CategoryTech,
			wantConfidence: 1.0 / 3,
		},
		{
			name:           "shipping",
			text:           "where is my package? tracking shows nothing",
			wantCategory:   domain.CategoryShipping,
			wantConfidence: 2.0 / 3,
		},
		{
			name:           "account",
			text:           "I forgot my password and my account is locked",
			wantCategory:   domain.CategoryAccount,
			wantConfidence: 2.0 / 3,
		},
		{
			name:           "no keyword hit",
			text:           "just saying hi",
			wantCategory:   domain.CategoryOther,
			wantConfidence: 0,
		},
		{
			name:           "empty input",
			text:           "",
			wantCategory:   domain.CategoryOther,
			wantConfidence: 0,
		},
		{
			name:           "case insensitive",
			text:           "REFUND my INVOICE",
			wantCategory:   domain.CategoryBilling,
			wantConfidence: 2.0 / 3,
		},
		{
			name:           "repeated keyword counts once",
			text:           "refund refund refund",
			wantCategory:   domain.CategoryBilling,
			wantConfidence: 1.0 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestClassifyTieKeepsFirstRule(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultRules())

	// One billing keyword and one tech keyword: equal score, billing is
	// declared first and must win.
	got := c.Classify("the invoice page shows an error")
	if got.Category != domain.CategoryBilling {
		t.Errorf("category = %q, want %q (first-declared rule on tie)", got.Category, domain.CategoryBilling)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultRules())
	text := "login error after payment, maybe a billing bug"

	first := c.Classify(text)
	for i := 0; i < 50; i++ {
		if got := c.Classify(text); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	t.Parallel()

	c := NewClassifier(DefaultRules())
	inputs := []string{
		"",
		"invoice billing refund charge payment", // all five billing keywords
		"error bug crash issue install connect login",
		"completely unrelated text about gardening",
	}
	for _, text := range inputs {
		got := c.Classify(text)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Classify(%q).Confidence = %v, want within [0,1]", text, got.Confidence)
		}
	}
}
