package usecase

import (
	"context"
	"strings"
	"sync"

	"gift-advisor/internal/domain/model"
	"gift-advisor/internal/domain/ports/adapter"
	"gift-advisor/internal/domain/ports/repository"
)

// ---- Fakes ----

// memHistoryRepo is an in-memory HistoryRepository with error injection.
type memHistoryRepo struct {
	mu        sync.Mutex
	bySession map[string][]model.ChatMessage

	GetError    error
	AppendError error
}

var _ repository.HistoryRepository = (*memHistoryRepo)(nil)

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{bySession: map[string][]model.ChatMessage{}}
}

func (m *memHistoryRepo) GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChatMessage, len(m.bySession[sessionID]))
	copy(out, m.bySession[sessionID])
	return out, nil
}

func (m *memHistoryRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySession[msg.SessionID] = append(m.bySession[msg.SessionID], *msg)
	return nil
}

func (m *memHistoryRepo) count(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bySession[sessionID])
}

// fakeCompletion answers the reply and chips calls separately, keyed by the
// system prompt, and records every prompt it receives.
type fakeCompletion struct {
	mu        sync.Mutex
	Reply     string
	ChipsText string
	ReplyErr  error
	ChipsErr  error
	Prompts   [][]adapter.Message
}

var _ adapter.CompletionAdapter = (*fakeCompletion)(nil)

func (f *fakeCompletion) Name() string { return "fake" }

func (f *fakeCompletion) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return len(messages), nil
}

func (f *fakeCompletion) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := f.CompleteWithUsage(ctx, model, messages)
	return reply, err
}

func (f *fakeCompletion) CompleteWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	f.mu.Lock()
	prompt := make([]adapter.Message, len(messages))
	copy(prompt, messages)
	f.Prompts = append(f.Prompts, prompt)
	f.mu.Unlock()

	if len(messages) > 0 && strings.Contains(messages[0].Content, "quick reply") {
		if f.ChipsErr != nil {
			return "", adapter.Usage{}, f.ChipsErr
		}
		return f.ChipsText, adapter.Usage{TotalTokens: 10}, nil
	}
	if f.ReplyErr != nil {
		return "", adapter.Usage{}, f.ReplyErr
	}
	return f.Reply, adapter.Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12}, nil
}

// replyPrompts returns the prompts sent with the gift persona (not chips).
func (f *fakeCompletion) replyPrompts() [][]adapter.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]adapter.Message
	for _, p := range f.Prompts {
		if len(p) > 0 && !strings.Contains(p[0].Content, "quick reply") {
			out = append(out, p)
		}
	}
	return out
}
