package domain

import (
	"fmt"
	"strings"
)

// QueryType selects how a grounded query is interpreted.
type QueryType string

// Available query types.
const (
	// QueryTypeFreeform answers the user's literal question.
	QueryTypeFreeform QueryType = "freeform"

	// QueryTypeSummarize replaces the question with a summary instruction.
	QueryTypeSummarize QueryType = "summarize"

	// QueryTypeQuiz replaces the question with a quiz-generation instruction.
	QueryTypeQuiz QueryType = "quiz"
)

// IsValid returns true if the query type is recognised.
func (t QueryType) IsValid() bool {
	switch t {
	case QueryTypeFreeform, QueryTypeSummarize, QueryTypeQuiz:
		return true
	default:
		return false
	}
}

// NeedsBroadCoverage reports whether the type rewrites the query and widens retrieval.
func (t QueryType) NeedsBroadCoverage() bool {
	return t == QueryTypeSummarize || t == QueryTypeQuiz
}

// String returns the string representation.
func (t QueryType) String() string {
	return string(t)
}

// ParseQueryType parses s into a QueryType. An empty string means freeform.
func ParseQueryType(s string) (QueryType, error) {
	t := QueryType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return QueryTypeFreeform, nil
	}
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown query type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Label returns the role as rendered into prompts.
func (r Role) Label() string {
	switch r {
	case RoleBot:
		return "Bot"
	default:
		return "User"
	}
}

// Turn is one prior message of a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// QueryRequest is the input to the query router.
type QueryRequest struct {
	// Query is the user's literal question.
	Query string `json:"query"`

	// FileID selects the document for grounded answering. Optional.
	FileID string `json:"file_id,omitempty"`

	// Filename names the document in rewritten instructions. Optional.
	Filename string `json:"filename,omitempty"`

	// UseRAG requests grounded answering. It only takes effect with a FileID.
	UseRAG bool `json:"use_rag"`

	// Type is the query type; empty means freeform.
	Type QueryType `json:"type"`

	// History is the prior conversation, oldest first.
	History []Turn `json:"history,omitempty"`
}

// Grounded reports whether the request selects grounded mode.
func (r QueryRequest) Grounded() bool {
	return r.UseRAG && r.FileID != ""
}

// Source cites one page of one document.
type Source struct {
	File string `json:"file"`
	Page int    `json:"page"`
}

// QueryResponse is the router's terminal output.
type QueryResponse struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	FileID    string   `json:"file_id"`
	RequestID string   `json:"request_id,omitempty"`

	// Mode and FallbackStage describe the path taken. They are not part
	// of the wire response.
	Mode          QueryMode     `json:"-"`
	FallbackStage FallbackStage `json:"-"`

	// RetrievalScores are the similarity scores seen during retrieval,
	// including those that triggered a low-confidence fallback.
	RetrievalScores []float64 `json:"-"`
}

// QueryMode is the answering mode a query ended in.
type QueryMode string

// Query modes.
const (
	QueryModeGeneral         QueryMode = "general"
	QueryModeRAG             QueryMode = "rag"
	QueryModeFallbackGeneral QueryMode = "fallback-general"
)

// FallbackStage records how far down the fallback chain a query went.
type FallbackStage string

// Fallback stages.
const (
	// FallbackNone means the selected mode answered directly.
	FallbackNone FallbackStage = "none"

	// FallbackLowConfidence means retrieval scored below threshold and the
	// query was answered in general mode.
	FallbackLowConfidence FallbackStage = "low_confidence"

	// FallbackGenerationError means the primary attempt failed and the
	// single general-mode fallback answered.
	FallbackGenerationError FallbackStage = "generation_error"

	// FallbackFailed means the fallback also failed and the apology was returned.
	FallbackFailed FallbackStage = "fallback_failed"
)

// GenerationMode selects the system instruction used for generation.
type GenerationMode string

// Generation modes.
const (
	GenerationGeneral     GenerationMode = "general"
	GenerationFreeformRAG GenerationMode = "freeform-rag"
	GenerationSummarize   GenerationMode = "summarize"
	GenerationQuiz        GenerationMode = "quiz"
)

// GenerationModeFor returns the grounded generation mode for a query type.
func GenerationModeFor(t QueryType) GenerationMode {
	switch t {
	case QueryTypeSummarize:
		return GenerationSummarize
	case QueryTypeQuiz:
		return GenerationQuiz
	default:
		return GenerationFreeformRAG
	}
}
