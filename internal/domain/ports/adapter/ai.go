package adapter

import "context"

// Message represents a chat message sent to a completion provider.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Usage for a single completion call, as reported by the provider.
// Provider names the adapter that actually answered; wrappers that delegate
// across several providers pass the inner value through unchanged.
type Usage struct {
	Provider         string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionAdapter is the port for LLM completions.
type CompletionAdapter interface {
	// Name identifies the provider for logging and metric labels.
	Name() string

	// CountTokens must return prompt tokens for the provided messages
	// (provider-specific counting; best-effort when exact isn't available).
	CountTokens(ctx context.Context, model string, messages []Message) (int, error)

	// Complete returns only the assistant text.
	Complete(ctx context.Context, model string, messages []Message) (string, error)

	// CompleteWithUsage returns assistant text + usage as reported by the provider.
	CompleteWithUsage(ctx context.Context, model string, messages []Message) (string, Usage, error)
}
