package services

import (
	"strings"

	"github.com/vera-labs/vera-cli/internal/core/domain"
)

// classificationTriggers mark queries asking what category, tier, or
// cluster something belongs to.
var classificationTriggers = []string{
	"classify", "what or how", "what/how", "acceptable outcome",
	"which tier", "which cluster", "what tier", "what category",
}

// conciseTriggers mark explicit brevity requests and simple factual
// lookups.
var conciseTriggers = []string{
	"briefly", "in one sentence", "in a sentence", "one word",
	"short answer", "quick answer", "tl;dr", "tldr", "in short",
}

// SelectMode picks the response verbosity contract for a query.
// Pure keyword inspection: deterministic and total. The mode is a
// directive consumed by prompt assembly, not enforced by truncating
// the model's output.
func SelectMode(query string) domain.ResponseMode {
	lower := strings.ToLower(query)

	for _, trigger := range classificationTriggers {
		if strings.Contains(lower, trigger) {
			return domain.ResponseModeClassification
		}
	}

	for _, trigger := range conciseTriggers {
		if strings.Contains(lower, trigger) {
			return domain.ResponseModeConcise
		}
	}

	return domain.ResponseModeComprehensive
}
