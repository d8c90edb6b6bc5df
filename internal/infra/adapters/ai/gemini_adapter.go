package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"gift-advisor/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter implements adapter.CompletionAdapter using the official SDK.
// It serves as a fallback provider when OpenRouter is not configured or
// fails over.
type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	contents, _ := toGenAIHistory(messages)
	resp, err := g.client.Models.CountTokens(ctx, g.modelFor(model), contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := g.CompleteWithUsage(ctx, model, messages)
	return reply, err
}

func (g *GeminiAdapter) CompleteWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	if len(messages) == 0 {
		return "", adapter.Usage{}, errors.New("gemini: no messages")
	}

	last := messages[len(messages)-1]
	if strings.ToLower(last.Role) != "user" {
		return "", adapter.Usage{}, errors.New("gemini: last message must be from user")
	}

	history, system := toGenAIHistory(messages[:len(messages)-1])
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	chat, err := g.client.Chats.Create(ctx, g.modelFor(model), cfg, history)
	if err != nil {
		return "", adapter.Usage{}, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: last.Content})
	if err != nil {
		return "", adapter.Usage{}, err
	}

	usage := adapter.Usage{Provider: g.Name()}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	text := resp.Text()
	if text == "" {
		return "", usage, errors.New("gemini: empty response")
	}
	return text, usage, nil
}

func (g *GeminiAdapter) modelFor(model string) string {
	// OpenRouter-style model slugs mean nothing to Gemini; anything that is
	// not a gemini model falls back to the adapter default.
	if strings.HasPrefix(strings.ToLower(model), "gemini") {
		return model
	}
	return g.defaultModel
}

// toGenAIHistory converts port messages to SDK contents. System prompts are
// returned separately: Gemini carries them as a system instruction, not as
// conversation turns.
func toGenAIHistory(messages []adapter.Message) ([]*genai.Content, string) {
	var system strings.Builder
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			if system.Len() > 0 {
				system.WriteString("\n\n")
			}
			system.WriteString(m.Content)
		case "assistant":
			out = append(out, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			out = append(out, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return out, system.String()
}
