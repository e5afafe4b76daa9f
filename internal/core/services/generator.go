package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// AnswerGenerator calls the LLM with the system instruction for a mode.
// It makes exactly one provider call per Generate and never retries.
type AnswerGenerator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(llm driven.LLMService, prompts driven.PromptStore) *AnswerGenerator {
	return &AnswerGenerator{llm: llm, prompts: prompts}
}

// SetChatOptions sets the options passed to every chat call.
func (g *AnswerGenerator) SetChatOptions(opts driven.ChatOptions) {
	g.opts = opts
}

var systemPrompts = map[domain.GenerationMode]string{
	domain.GenerationGeneral:     driven.PromptGeneralSystem,
	domain.GenerationFreeformRAG: driven.PromptGroundedSystem,
	domain.GenerationSummarize:   driven.PromptSummarizeSystem,
	domain.GenerationQuiz:        driven.PromptQuizSystem,
}

// Generate answers prompt under the system instruction for mode.
func (g *AnswerGenerator) Generate(ctx context.Context, prompt string, mode domain.GenerationMode) (string, error) {
	if g.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	name, ok := systemPrompts[mode]
	if !ok {
		return "", fmt.Errorf("%w: unknown generation mode %q", domain.ErrInvalidInput, mode)
	}
	system, err := g.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}

	answer, err := g.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: prompt},
	}, g.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: empty response from %s", domain.ErrGeneration, g.llm.ModelName())
	}
	return answer, nil
}
