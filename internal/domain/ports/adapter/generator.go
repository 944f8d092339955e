package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// TextGenerator is the port for the generative-text provider. Implementations
// exist per provider; the variant is selected once from configuration at
// startup. Errors cross this boundary — the generation use case downgrades
// them to the deterministic fallback, never its callers.
type TextGenerator interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Chat returns the assistant text for the given conversation.
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
