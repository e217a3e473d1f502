// Package services implements the core business logic of Vera.
// Services depend only on domain types and ports; adapters are
// injected at construction time.
package services

import (
	"strings"

	"github.com/vera-labs/vera-cli/internal/core/domain"
	"github.com/vera-labs/vera-cli/internal/core/ports/driven"
	"github.com/vera-labs/vera-cli/internal/logger"
)

// Retrieval limits.
const (
	// SinglePassLimit is the result cap for a focused single search.
	SinglePassLimit = 15

	// MultiPassBudget is the truncation budget after deduplicating a
	// multi-pass result pool.
	MultiPassBudget = 25

	// DomainQueryLimit is the per-sub-query result cap in a multi-pass
	// plan.
	DomainQueryLimit = 5
)

// multiPassTriggers are the phrases that mark a query as needing
// comprehensive cross-domain retrieval. Matching is case-insensitive
// substring containment.
var multiPassTriggers = []string{
	// Project analysis
	"identify projects", "compare projects", "consolidate projects",
	"similar projects", "project overlap", "combine projects",
	"project consolidation", "merge projects",

	// Cross-domain analysis
	"across all capabilities", "across capabilities", "all domains",
	"cross-capability", "cross-domain", "enterprise-wide",

	// Comprehensive analysis
	"comprehensive analysis", "complete list", "all instances",
	"portfolio analysis", "strategic overview", "full inventory",
}

// defaultDomains is the compiled-in capability taxonomy used for
// multi-pass plans. Override via the retrieval.domains config key,
// one "Label|query text" entry per domain.
var defaultDomains = []domain.SubQuery{
	{Label: "Change Control", Text: "change control management projects descriptions", Limit: DomainQueryLimit},
	{Label: "Product Data", Text: "BOM PIM management projects descriptions", Limit: DomainQueryLimit},
	{Label: "Requirements", Text: "requirements management projects descriptions", Limit: DomainQueryLimit},
	{Label: "Design Collaboration", Text: "design management collaboration projects", Limit: DomainQueryLimit},
	{Label: "Data & AI", Text: "data AI projects descriptions", Limit: DomainQueryLimit},
	{Label: "Dependencies", Text: "project dependencies impact portfolio relationships", Limit: DomainQueryLimit},
}

// RetrievalPlanner classifies queries as single-pass or multi-pass and
// produces the corresponding retrieval plan. Classification is a pure
// keyword heuristic: deterministic, total, and side-effect free.
type RetrievalPlanner struct {
	domains []domain.SubQuery
}

// NewRetrievalPlanner creates a planner with the compiled-in domain
// taxonomy. A nil config store keeps the defaults; otherwise the
// retrieval.domains key overrides them.
func NewRetrievalPlanner(cfg driven.ConfigStore) *RetrievalPlanner {
	domains := defaultDomains

	if cfg != nil {
		if custom := parseDomainConfig(cfg.GetStringSlice("retrieval.domains")); len(custom) > 0 {
			logger.Debug("Planner: using %d configured domains", len(custom))
			domains = custom
		}
	}

	return &RetrievalPlanner{domains: domains}
}

// Plan maps a user query to a retrieval plan. Every non-empty query
// maps to exactly one plan; empty or whitespace-only input fails with
// domain.ErrInvalidQuery.
func (p *RetrievalPlanner) Plan(query string) (domain.RetrievalPlan, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RetrievalPlan{}, domain.ErrInvalidQuery
	}

	if p.isMultiPass(query) {
		logger.Debug("Planner: multi-pass, %d domain sub-queries", len(p.domains))
		return domain.RetrievalPlan{
			Mode:       domain.PlanModeMultiPass,
			SubQueries: p.domains,
			Budget:     MultiPassBudget,
		}, nil
	}

	logger.Debug("Planner: single-pass")
	return domain.RetrievalPlan{
		Mode: domain.PlanModeSinglePass,
		SubQueries: []domain.SubQuery{
			{Text: query, Limit: SinglePassLimit},
		},
		Budget: SinglePassLimit,
	}, nil
}

// isMultiPass reports whether the query needs comprehensive
// cross-domain retrieval.
func (p *RetrievalPlanner) isMultiPass(query string) bool {
	lower := strings.ToLower(query)
	for _, trigger := range multiPassTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// parseDomainConfig converts "Label|query text" config entries into
// sub-queries. Malformed entries are skipped.
func parseDomainConfig(entries []string) []domain.SubQuery {
	var domains []domain.SubQuery
	for _, entry := range entries {
		label, text, ok := strings.Cut(entry, "|")
		if !ok || strings.TrimSpace(text) == "" {
			logger.Warn("Planner: skipping malformed domain entry %q", entry)
			continue
		}
		domains = append(domains, domain.SubQuery{
			Label: strings.TrimSpace(label),
			Text:  strings.TrimSpace(text),
			Limit: DomainQueryLimit,
		})
	}
	return domains
}
