package repo

import "context"

// ChatTurn is one turn of conversation context sent to the text generator
type ChatTurn struct {
	Role    string // "user" or "assistant"
	Content string
}

// GeneratorRepo is the external text-generation collaborator interface.
// Implementations must bound the call with a timeout; any failure (timeout,
// transport error, empty completion) is returned as an error so callers can
// fall back to the deterministic rule strategy.
type GeneratorRepo interface {
	Generate(ctx context.Context, systemPrompt string, turns []ChatTurn) (string, error)
}
