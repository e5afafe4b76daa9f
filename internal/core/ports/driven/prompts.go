package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptGeneralSystem is the system instruction for general chat.
	PromptGeneralSystem = "general_system"

	// PromptGroundedSystem is the system instruction for grounded Q&A.
	// It must ask for page citations and a not-found answer when the
	// context is insufficient.
	PromptGroundedSystem = "grounded_system"

	// PromptSummarizeSystem is the system instruction for structured summaries.
	PromptSummarizeSystem = "summarize_system"

	// PromptQuizSystem is the system instruction for quiz generation.
	PromptQuizSystem = "quiz_system"

	// PromptSummarizeQuery replaces the user's query for summarize requests.
	// Expects one %s placeholder for the document phrase.
	PromptSummarizeQuery = "summarize_query"

	// PromptQuizQuery replaces the user's query for quiz requests.
	// Expects one %s placeholder for the document phrase.
	PromptQuizQuery = "quiz_query"

	// PromptDocumentNamed refers to a document by name. Expects %s (filename).
	PromptDocumentNamed = "document_named"

	// PromptDocumentGeneric refers to a document without a name.
	PromptDocumentGeneric = "document_generic"

	// PromptContextChunk renders one retrieved chunk. Expects %d (page) and %s (text).
	PromptContextChunk = "context_chunk"

	// PromptContext introduces the retrieved chunks. Expects %s (rendered chunks).
	PromptContext = "context"

	// PromptQuestion introduces the current question. Expects %s (question).
	PromptQuestion = "question"

	// PromptHistory introduces prior turns. Expects %s (rendered turns).
	PromptHistory = "history"

	// PromptNotFound is the fixed answer when retrieval returns nothing.
	PromptNotFound = "not_found"

	// PromptApology is returned when both attempts fail. Expects %s (request ID).
	PromptApology = "apology"
)

// AllPrompts lists every well-known prompt name.
func AllPrompts() []string {
	return []string{
		PromptGeneralSystem,
		PromptGroundedSystem,
		PromptSummarizeSystem,
		PromptQuizSystem,
		PromptSummarizeQuery,
		PromptQuizQuery,
		PromptDocumentNamed,
		PromptDocumentGeneric,
		PromptContextChunk,
		PromptContext,
		PromptQuestion,
		PromptHistory,
		PromptNotFound,
		PromptApology,
	}
}
