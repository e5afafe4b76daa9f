package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// Ensure QueryRouter implements the interface.
var _ driving.QueryService = (*QueryRouter)(nil)

// defaultApology is used when the apology template itself cannot be loaded.
const defaultApology = "Sorry, something went wrong while answering. Request ID: %s"

// ChunkRetriever finds the chunks of one document nearest to a query.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query, fileID string, topK int) (*domain.RetrievalResult, error)
}

// Generator produces an answer for a prompt under a generation mode.
type Generator interface {
	Generate(ctx context.Context, prompt string, mode domain.GenerationMode) (string, error)
}

// RouterConfig holds the routing parameters.
type RouterConfig struct {
	// SimilarityThreshold is the confidence gate for freeform queries.
	SimilarityThreshold float64

	// TopK is the retrieval depth for freeform queries.
	TopK int

	// BroadTopK is the retrieval depth for summarize and quiz queries.
	BroadTopK int

	// HistoryTurns is the maximum number of prior turns rendered.
	HistoryTurns int
}

// DefaultRouterConfig returns the default routing parameters.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		SimilarityThreshold: domain.DefaultSimilarityThreshold,
		TopK:                domain.DefaultTopK,
		BroadTopK:           domain.DefaultBroadTopK,
		HistoryTurns:        domain.DefaultHistoryTurns,
	}
}

// QueryRouter decides between general and grounded answering, gates
// low-confidence retrievals, and falls back once to general mode when a
// step fails.
type QueryRouter struct {
	retriever ChunkRetriever
	generator Generator
	prompts   driven.PromptStore
	sink      driven.QueryLogSink
	docs      driven.DocumentStore
	observer  driven.Observer
	cfg       RouterConfig
	newID     func() string
	now       func() time.Time
}

// NewQueryRouter creates a query router. The log sink may be nil.
func NewQueryRouter(
	retriever ChunkRetriever,
	generator Generator,
	prompts driven.PromptStore,
	sink driven.QueryLogSink,
	cfg RouterConfig,
) *QueryRouter {
	def := DefaultRouterConfig()
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.BroadTopK <= 0 {
		cfg.BroadTopK = def.BroadTopK
	}
	if cfg.HistoryTurns < 0 {
		cfg.HistoryTurns = def.HistoryTurns
	}
	return &QueryRouter{
		retriever: retriever,
		generator: generator,
		prompts:   prompts,
		sink:      sink,
		cfg:       cfg,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// SetDocumentStore lets the router resolve filenames from file IDs.
func (r *QueryRouter) SetDocumentStore(store driven.DocumentStore) {
	r.docs = store
}

// SetObserver reports query outcomes to o.
func (r *QueryRouter) SetObserver(o driven.Observer) {
	r.observer = o
}

// attempt carries the state of one query through the pipeline.
type attempt struct {
	req       domain.QueryRequest
	queryType domain.QueryType
	history   string
	retrieval *domain.RetrievalResult

	retrievalTime  time.Duration
	generationTime time.Duration
	retrieved      bool
	generated      bool
}

// HandleQuery answers one query. Backend failures never surface as
// errors; the caller gets either a fallback answer or an apology that
// carries the request ID. An error is returned only for an invalid
// query type.
func (r *QueryRouter) HandleQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	started := r.now()

	queryType, err := domain.ParseQueryType(string(req.Type))
	if err != nil {
		return nil, err
	}
	req.Type = queryType

	requestID := r.newID()
	a := &attempt{req: req, queryType: queryType}

	logger.Section("Query")
	logger.Debug("Request %s: type=%s use_rag=%t file_id=%q", requestID, queryType, req.UseRAG, req.FileID)

	entry := domain.QueryLogEntry{
		Timestamp:      started.UTC(),
		RequestID:      requestID,
		Query:          req.Query,
		EffectiveQuery: req.Query,
		QueryType:      queryType,
		FileID:         req.FileID,
		UseRAG:         req.UseRAG,
		FallbackStage:  domain.FallbackNone,
	}

	resp, effective, err := r.route(ctx, a)
	entry.EffectiveQuery = effective
	if err != nil {
		resp = r.fallback(ctx, a, requestID, err, &entry)
	} else {
		entry.Success = true
	}

	resp.FileID = req.FileID
	if resp.Sources == nil {
		resp.Sources = []domain.Source{}
	}
	if a.retrieval != nil {
		resp.RetrievalScores = a.retrieval.Scores()
	}

	entry.Mode = resp.Mode
	entry.FallbackStage = resp.FallbackStage
	entry.RetrievedChunkIDs = a.retrieval.IDs()
	entry.RetrievedPages = a.retrieval.Pages()
	entry.RetrievalScores = a.retrieval.Scores()
	if a.retrieved {
		entry.RetrievalLatencyMS = domain.LatencyMS(a.retrievalTime)
	}
	if a.generated {
		entry.GenerationLatencyMS = domain.LatencyMS(a.generationTime)
	}
	entry.TotalLatencyMS = domain.Milliseconds(r.now().Sub(started))
	r.record(ctx, entry)

	logger.Info("Request %s answered: mode=%s fallback=%s", requestID, resp.Mode, resp.FallbackStage)
	return resp, nil
}

// route runs mode selection through generation. It returns the effective
// query even on failure so the log reflects what was attempted.
func (r *QueryRouter) route(ctx context.Context, a *attempt) (*domain.QueryResponse, string, error) {
	history, err := r.renderHistory(a.req.History)
	if err != nil {
		return nil, a.req.Query, &domain.StageError{Stage: domain.StageModeSelect, Err: err}
	}
	a.history = history

	if !a.req.Grounded() {
		logger.Debug("General mode (use_rag=%t, file_id=%q)", a.req.UseRAG, a.req.FileID)
		resp, err := r.answerGeneral(ctx, a)
		return resp, a.req.Query, err
	}

	effective, topK, err := r.rewrite(ctx, a)
	if err != nil {
		return nil, a.req.Query, &domain.StageError{Stage: domain.StageModeSelect, Err: err}
	}
	if effective != a.req.Query {
		logger.Debug("Effective query: %q (top_k=%d)", effective, topK)
	}

	retrieveStart := r.now()
	result, err := r.retriever.Retrieve(ctx, effective, a.req.FileID, topK)
	a.retrievalTime = r.now().Sub(retrieveStart)
	a.retrieved = true
	if err != nil {
		return nil, effective, &domain.StageError{Stage: domain.StageRetrieve, Err: err}
	}
	a.retrieval = result

	if result.Empty() {
		notFound, err := r.prompts.Load(driven.PromptNotFound)
		if err != nil {
			return nil, effective, &domain.StageError{Stage: domain.StageRetrieve, Err: err}
		}
		logger.Debug("No chunks indexed for %s, skipping generation", a.req.FileID)
		return &domain.QueryResponse{
			Answer:        notFound,
			Mode:          domain.QueryModeRAG,
			FallbackStage: domain.FallbackNone,
		}, effective, nil
	}

	if a.queryType == domain.QueryTypeFreeform && result.TopScore() < r.cfg.SimilarityThreshold {
		logger.Info("Top score %.3f below threshold %.2f, answering in general mode",
			result.TopScore(), r.cfg.SimilarityThreshold)
		resp, err := r.answerGeneral(ctx, a)
		if err != nil {
			return nil, effective, err
		}
		resp.Mode = domain.QueryModeFallbackGeneral
		resp.FallbackStage = domain.FallbackLowConfidence
		return resp, effective, nil
	}

	prompt, err := r.groundedPrompt(result, a.history, effective)
	if err != nil {
		return nil, effective, &domain.StageError{Stage: domain.StageGenerate, Err: err}
	}
	answer, err := r.generate(ctx, a, prompt, domain.GenerationModeFor(a.queryType))
	if err != nil {
		return nil, effective, &domain.StageError{Stage: domain.StageGenerate, Err: err}
	}

	return &domain.QueryResponse{
		Answer:        answer,
		Sources:       sources(result),
		Mode:          domain.QueryModeRAG,
		FallbackStage: domain.FallbackNone,
	}, effective, nil
}

// fallback makes the single general-mode retry after a failure, then
// gives up with an apology.
func (r *QueryRouter) fallback(
	ctx context.Context, a *attempt, requestID string, cause error, entry *domain.QueryLogEntry,
) *domain.QueryResponse {
	stage := domain.StageOf(cause)
	if stage == "" {
		stage = domain.StageGenerate
	}
	logger.Error("Request %s: %s stage failed: %v", requestID, stage, cause)

	answer, err := r.generate(ctx, a, r.generalPrompt(a.history, a.req.Query), domain.GenerationGeneral)
	if err == nil {
		entry.Success = true
		entry.Stage = stage
		entry.Error = cause.Error()
		return &domain.QueryResponse{
			Answer:        answer,
			RequestID:     requestID,
			Mode:          domain.QueryModeFallbackGeneral,
			FallbackStage: domain.FallbackGenerationError,
		}
	}

	logger.Error("Request %s: general fallback failed after %s failure: %v", requestID, stage, err)
	entry.Success = false
	entry.Stage = domain.StageFallback
	entry.Error = fmt.Sprintf("%s: %v; fallback: %v", stage, cause, err)

	return &domain.QueryResponse{
		Answer:        r.apology(requestID),
		RequestID:     requestID,
		Mode:          domain.QueryModeFallbackGeneral,
		FallbackStage: domain.FallbackFailed,
	}
}

func (r *QueryRouter) answerGeneral(ctx context.Context, a *attempt) (*domain.QueryResponse, error) {
	answer, err := r.generate(ctx, a, r.generalPrompt(a.history, a.req.Query), domain.GenerationGeneral)
	if err != nil {
		return nil, &domain.StageError{Stage: domain.StageGenerate, Err: err}
	}
	return &domain.QueryResponse{
		Answer:        answer,
		Mode:          domain.QueryModeGeneral,
		FallbackStage: domain.FallbackNone,
	}, nil
}

func (r *QueryRouter) generate(
	ctx context.Context, a *attempt, prompt string, mode domain.GenerationMode,
) (string, error) {
	start := r.now()
	answer, err := r.generator.Generate(ctx, prompt, mode)
	a.generationTime += r.now().Sub(start)
	a.generated = true
	return answer, err
}

// rewrite returns the effective query and retrieval depth. Summarize and
// quiz requests replace the user's text with a fixed instruction.
func (r *QueryRouter) rewrite(ctx context.Context, a *attempt) (string, int, error) {
	var name string
	switch a.queryType {
	case domain.QueryTypeSummarize:
		name = driven.PromptSummarizeQuery
	case domain.QueryTypeQuiz:
		name = driven.PromptQuizQuery
	default:
		return a.req.Query, r.cfg.TopK, nil
	}

	tmpl, err := r.prompts.Load(name)
	if err != nil {
		return "", 0, err
	}
	phrase, err := r.documentPhrase(ctx, a.req)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf(tmpl, phrase), r.cfg.BroadTopK, nil
}

// documentPhrase names the document, resolving the filename from the
// document store when the request omits it.
func (r *QueryRouter) documentPhrase(ctx context.Context, req domain.QueryRequest) (string, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" && r.docs != nil {
		if doc, err := r.docs.GetDocument(ctx, req.FileID); err == nil {
			filename = doc.Filename
		}
	}
	if filename == "" {
		return r.prompts.Load(driven.PromptDocumentGeneric)
	}
	tmpl, err := r.prompts.Load(driven.PromptDocumentNamed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, filename), nil
}

// renderHistory renders the last HistoryTurns non-empty turns, oldest first.
func (r *QueryRouter) renderHistory(turns []domain.Turn) (string, error) {
	kept := make([]domain.Turn, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) > r.cfg.HistoryTurns {
		kept = kept[len(kept)-r.cfg.HistoryTurns:]
	}
	if len(kept) == 0 {
		return "", nil
	}

	lines := make([]string, len(kept))
	for i, t := range kept {
		lines[i] = t.Role.Label() + ": " + strings.TrimSpace(t.Text)
	}

	tmpl, err := r.prompts.Load(driven.PromptHistory)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, strings.Join(lines, "\n")), nil
}

// generalPrompt is the bare question, preceded by the history when present.
func (r *QueryRouter) generalPrompt(history, query string) string {
	if history == "" {
		return query
	}
	return history + "\n\n" + query
}

// groundedPrompt renders the chunks in retrieval order, then the history,
// then the question.
func (r *QueryRouter) groundedPrompt(result *domain.RetrievalResult, history, query string) (string, error) {
	chunkTmpl, err := r.prompts.Load(driven.PromptContextChunk)
	if err != nil {
		return "", err
	}
	contextTmpl, err := r.prompts.Load(driven.PromptContext)
	if err != nil {
		return "", err
	}
	questionTmpl, err := r.prompts.Load(driven.PromptQuestion)
	if err != nil {
		return "", err
	}

	rendered := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		rendered[i] = fmt.Sprintf(chunkTmpl, c.Chunk.PageNumber, c.Chunk.Text)
	}

	parts := []string{fmt.Sprintf(contextTmpl, strings.Join(rendered, "\n\n"))}
	if history != "" {
		parts = append(parts, history)
	}
	parts = append(parts, fmt.Sprintf(questionTmpl, query))
	return strings.Join(parts, "\n\n"), nil
}

// sources deduplicates (file, page) pairs in first-seen order.
func sources(result *domain.RetrievalResult) []domain.Source {
	seen := make(map[domain.Source]bool, len(result.Chunks))
	out := make([]domain.Source, 0, len(result.Chunks))
	for _, c := range result.Chunks {
		src := domain.Source{File: c.Chunk.Filename, Page: c.Chunk.PageNumber}
		if seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

func (r *QueryRouter) apology(requestID string) string {
	tmpl, err := r.prompts.Load(driven.PromptApology)
	if err != nil || !strings.Contains(tmpl, "%s") {
		tmpl = defaultApology
	}
	return fmt.Sprintf(tmpl, requestID)
}

// record appends entry to the log sink. Failures are only logged.
func (r *QueryRouter) record(ctx context.Context, entry domain.QueryLogEntry) {
	if r.observer != nil {
		r.observer.QueryCompleted(entry)
	}
	if r.sink == nil {
		return
	}
	if err := r.sink.Append(ctx, entry); err != nil {
		logger.Warn("Failed to write query log for %s: %v", entry.RequestID, err)
	}
}
