package data

import (
	"context"

	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/llm"
)

// generatorRepo implements the text-generation repository on the LLM client
type generatorRepo struct {
	client *llm.Client
}

// NewGeneratorRepo creates a generator repository.
// Returns nil when no client is configured, which disables the generator
// strategy in the negotiation engine.
func NewGeneratorRepo(client *llm.Client) repo.GeneratorRepo {
	if client == nil {
		return nil
	}
	return &generatorRepo{client: client}
}

// Generate produces a completion for the prompt context
func (r *generatorRepo) Generate(ctx context.Context, systemPrompt string, turns []repo.ChatTurn) (string, error) {
	llmTurns := make([]llm.Turn, 0, len(turns))
	for _, t := range turns {
		llmTurns = append(llmTurns, llm.Turn{Role: t.Role, Content: t.Content})
	}
	return r.client.Chat(ctx, systemPrompt, llmTurns)
}
