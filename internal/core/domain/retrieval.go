package domain

// PlanMode defines how a query maps onto chunk store searches.
type PlanMode string

// Available plan modes.
const (
	// PlanModeSinglePass issues the original query as one search.
	PlanModeSinglePass PlanMode = "single_pass"

	// PlanModeMultiPass issues a fixed set of domain sub-queries to
	// cover queries spanning multiple knowledge domains.
	PlanModeMultiPass PlanMode = "multi_pass"
)

// IsValid returns true if the plan mode is recognised.
func (m PlanMode) IsValid() bool {
	return m == PlanModeSinglePass || m == PlanModeMultiPass
}

// String returns the string representation.
func (m PlanMode) String() string {
	return string(m)
}

// SubQuery is a single search to issue against the chunk store.
type SubQuery struct {
	// Text is the query text sent to the store.
	Text string

	// Label is a human-readable domain label ("Requirements",
	// "Change Control", ...). Empty for single-pass plans.
	Label string

	// Limit caps the number of results for this sub-query.
	Limit int
}

// RetrievalPlan describes how a user query is decomposed into one or
// more chunk store searches. Plans are produced by the planner and
// consumed by the retriever; they are never persisted.
type RetrievalPlan struct {
	// Mode is single-pass or multi-pass.
	Mode PlanMode

	// SubQueries is the ordered list of searches to issue.
	// Multi-pass plans always carry the same fixed set of domain
	// sub-queries regardless of query content.
	SubQueries []SubQuery

	// Budget is the maximum number of results retained after
	// deduplication and ranking.
	Budget int
}
