package repository

import (
	"context"

	"gift-advisor/internal/domain/model"
)

// HistoryRepository is the port for conversation persistence. Sessions are
// implicit: the first Append for an unknown session_id creates it, and a
// session's history is always returned oldest first.
type HistoryRepository interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	Append(ctx context.Context, message *model.ChatMessage) error
}
