package domain

// ResponseMode is a per-query directive controlling the verbosity and
// format contract of the generated answer. It instructs the model;
// output is not truncated to enforce it.
type ResponseMode string

// Available response modes.
const (
	// ResponseModeConcise answers brevity requests and simple factual
	// lookups in at most 15 words.
	ResponseModeConcise ResponseMode = "concise"

	// ResponseModeClassification answers category/tier questions in at
	// most 5 words.
	ResponseModeClassification ResponseMode = "classification"

	// ResponseModeComprehensive is the default explanatory mode and may
	// include examples, diagrams, and structured sections.
	ResponseModeComprehensive ResponseMode = "comprehensive"
)

// IsValid returns true if the response mode is recognised.
func (m ResponseMode) IsValid() bool {
	switch m {
	case ResponseModeConcise, ResponseModeClassification, ResponseModeComprehensive:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ResponseMode) String() string {
	return string(m)
}

// Directive returns the prompt instruction consumed by prompt assembly.
func (m ResponseMode) Directive() string {
	switch m {
	case ResponseModeConcise:
		return "Answer in 15 words or fewer. State only the fact requested, with no preamble."
	case ResponseModeClassification:
		return "Answer with the classification only, in 5 words or fewer."
	default:
		return "Provide a full explanatory answer. Use structured sections, examples, " +
			"and diagrams where they aid understanding."
	}
}
