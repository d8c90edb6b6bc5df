package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gift-advisor/internal/domain"
	"gift-advisor/internal/domain/model"
	"gift-advisor/internal/domain/ports/adapter"
	"gift-advisor/internal/domain/ports/repository"
	"gift-advisor/internal/infra/logging"
	"gift-advisor/internal/infra/metrics"
)

// giftPersona is the system prompt for the main recommendation reply.
const giftPersona = `Role: An expert gift recommendation specialist.

CRITICAL INSTRUCTIONS:
- READ THE FULL CONVERSATION HISTORY PROVIDED
- NEVER ask for information you already have
- NEVER repeat questions about budget, occasion, interests, or recipient details that have been answered
- Track what information you have: recipient type, interests, budget, occasion, what to avoid
- If the user asks for more ideas, variations, or different suggestions - provide them directly
- Only ask clarifying questions about NEW information you need

Instructions:
1. Acknowledge the user's input: start responses with recognition of what they've shared.
2. Analyze and brainstorm: use ALL provided details to generate 3-5 unique and tailored gift ideas.
3. Structure the output: present gift ideas in a clear, numbered list with:
    - Title: (e.g., *High-Quality Hiking Socks*)
    - Description: what it is and specific examples
    - Rationale: why it's perfect for THIS specific person
4. Be conversational and helpful: maintain a friendly, creative, and practical tone.
5. Respect constraints: adhere to the budget, occasion, and preferences mentioned.`

// chipsPersona is the system prompt for the secondary quick-reply call.
// The output contract (3 messages separated by "|") is what the parser in
// chips.go expects.
const chipsPersona = `Role: Generate quick reply messages that the USER can send to the assistant.
Instructions:
1. Generate exactly 3 short messages that the USER would send back to continue the conversation.
2. These are complete user messages, NOT questions TO ask the user.
3. Each message should be a natural, complete thought (5-12 words maximum).
4. Output ONLY the 3 messages separated by "|" with no additional text, explanations, or numbering.

Examples of GOOD replies:
"They're really into photography" | "My budget is around $75" | "It's for their birthday party"
"It's for my coworker" | "They love cooking and travel" | "Any price under $100 is fine"

Constraints:
*   Generate messages FROM the user, not TO the user
*   No questions (no "?")
*   Separate with " | " (space, pipe, space)
*   No numbering or bullets`

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// ChatResult is the shaped outcome of one chat turn.
type ChatResult struct {
	Reply string
	Chips []string
}

type ChatUseCase interface {
	// SendMessage runs one conversation turn: prior history is fetched,
	// the reply and quick-reply chips are generated, and both the user and
	// assistant turns are persisted.
	SendMessage(ctx context.Context, sessionID, message string) (*ChatResult, error)
}

type chatUC struct {
	history    repository.HistoryRepository
	ai         adapter.CompletionAdapter
	replyModel string
	chipsModel string
	timeout    time.Duration
	log        *zerolog.Logger
}

func NewChatUseCase(history repository.HistoryRepository, ai adapter.CompletionAdapter, replyModel, chipsModel string, timeout time.Duration, log *zerolog.Logger) *chatUC {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &chatUC{
		history:    history,
		ai:         ai,
		replyModel: replyModel,
		chipsModel: chipsModel,
		timeout:    timeout,
		log:        log,
	}
}

func (c *chatUC) SendMessage(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	message = strings.TrimSpace(message)
	if sessionID == "" || message == "" {
		return nil, domain.ErrInvalidArgument
	}

	log := logging.With(logging.WithSessionID(ctx, sessionID), c.log)
	defer logging.TraceDuration(log, "ChatUC.SendMessage")()

	// Prior turns, oldest first. A store failure fails the request: losing
	// continuity silently would corrupt the conversation.
	prior, err := c.history.GetHistory(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	prompt := buildPrompt(giftPersona, prior, message)
	reply, err := c.complete(ctx, log, c.replyModel, prompt)
	if err != nil {
		return nil, err
	}

	// Chips are decorative: any failure here degrades to an empty list.
	chips := c.suggestChips(ctx, log, prior, message)

	// Persist user turn, then assistant turn. Append-only; order matters.
	if err := c.history.Append(ctx, model.NewUserMessage(sessionID, message)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if err := c.history.Append(ctx, model.NewAssistantMessage(sessionID, reply)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return &ChatResult{Reply: reply, Chips: chips}, nil
}

func (c *chatUC) complete(ctx context.Context, log *zerolog.Logger, model string, prompt []adapter.Message) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	reply, usage, err := c.ai.CompleteWithUsage(cctx, model, prompt)
	latency := time.Since(start).Milliseconds()

	// With a failover chain the adapter's own name is only the first link;
	// usage carries the provider that actually answered.
	provider := usage.Provider
	if provider == "" {
		provider = c.ai.Name()
	}
	metrics.ObserveCompletion(provider, model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, err == nil)

	if err != nil {
		log.Error().Str("model", model).Err(err).Msg("completion failed")
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: model %s", domain.ErrEmptyCompletion, model)
	}
	return reply, nil
}

func (c *chatUC) suggestChips(ctx context.Context, log *zerolog.Logger, prior []model.ChatMessage, message string) []string {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(chipsPersona, prior, message)
	raw, err := c.ai.Complete(cctx, c.chipsModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("chip generation failed")
		metrics.IncChipsParseFailure()
		return nil
	}
	chips := ParseChips(raw, maxChips)
	if len(chips) == 0 {
		metrics.IncChipsParseFailure()
	}
	return chips
}

// buildPrompt shapes one completion input: persona first, then the prior
// turns oldest first, then the new user message.
func buildPrompt(persona string, prior []model.ChatMessage, message string) []adapter.Message {
	out := make([]adapter.Message, 0, len(prior)+2)
	out = append(out, adapter.Message{Role: model.RoleSystem, Content: persona})
	for _, m := range prior {
		out = append(out, adapter.Message{Role: m.Role, Content: m.Content})
	}
	out = append(out, adapter.Message{Role: model.RoleUser, Content: message})
	return out
}
