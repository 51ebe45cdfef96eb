package triage

import (
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Normalizer divides the raw keyword score to produce a confidence in [0,1].
// Defined once so every call site (explicit triage, create-time auto-triage,
// suggestions) applies the same auto-close behavior.
const Normalizer = 3

// Rule maps a category to the keywords that vote for it. Rule order matters:
// on a tied score the first-declared rule wins.
type Rule struct {
	Category domain.TicketCategory
	Keywords []string
}

// DefaultRules is the rule set used in production. Order is part of the
// contract, not cosmetic.
func DefaultRules() []Rule {
	return []Rule{
		{Category: domain.CategoryBilling, Keywords: []string{"invoice", "billing", "refund", "charge", "payment"}},
		{Category: domain.CategoryTech, Keywords: []string{"error", "bug", "crash", "issue", "install", "connect", "login"}},
		{Category: domain.CategoryShipping, Keywords: []string{"shipping", "delivery", "tracking", "package"}},
		{Category: domain.CategoryAccount, Keywords: []string{"account", "password", "subscription", "profile", "email change"}},
	}
}

// Classification is the classifier output.
type Classification struct {
	Category   domain.TicketCategory `json:"category"`
	Confidence float64               `json:"confidence"`
}

// Classifier scores ticket text against an ordered keyword rule set.
// It is pure and deterministic; the zero value is not usable, construct
// with NewClassifier.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over the given rules. Pass
// DefaultRules() unless a test needs a custom set.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify counts, per rule, how many of its keywords occur as
// case-insensitive substrings of text (each keyword counts at most once).
// The strictly highest score wins; ties keep the earlier rule. A zero score
// yields category "other" with confidence 0.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	best := struct {
		category domain.TicketCategory
		score    int
	}{category: domain.CategoryOther}

	for _, rule := range c.rules {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > best.score {
			best.category = rule.Category
			best.score = score
		}
	}

	confidence := float64(best.score) / Normalizer
	if confidence > 1 {
		confidence = 1
	}
	return Classification{Category: best.category, Confidence: confidence}
}
