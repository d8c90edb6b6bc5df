package web

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"gift-advisor/internal/config"
	"gift-advisor/internal/infra/logging"
	"gift-advisor/internal/usecase"
)

// mockChatUC records calls and returns a scripted result or error.
type mockChatUC struct {
	mu     sync.Mutex
	Result *usecase.ChatResult
	Err    error
	Calls  []struct{ SessionID, Message string }
}

var _ usecase.ChatUseCase = (*mockChatUC)(nil)

func (m *mockChatUC) SendMessage(ctx context.Context, sessionID, message string) (*usecase.ChatResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, struct{ SessionID, Message string }{sessionID, message})
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *mockChatUC) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func newTestLogger() *zerolog.Logger {
	return logging.New(config.LogConfig{Level: "error", Format: "console"}, true)
}
