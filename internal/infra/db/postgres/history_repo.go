package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"gift-advisor/internal/domain/model"
	"gift-advisor/internal/domain/ports/repository"
	"gift-advisor/internal/infra/redis"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo persists conversation turns in the chat_messages table.
// Rows are append-only: past turns are never updated or reordered.
// The optional cache is consulted on reads and invalidated on writes,
// always best-effort.
type HistoryRepo struct {
	pool  *pgxpool.Pool
	cache *redis.HistoryCache
}

func NewHistoryRepo(pool *pgxpool.Pool, cache *redis.HistoryCache) *HistoryRepo {
	return &HistoryRepo{pool: pool, cache: cache}
}

func (r *HistoryRepo) GetHistory(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	if r.cache != nil {
		if messages, err := r.cache.Get(ctx, sessionID); err == nil {
			return messages, nil
		}
	}

	const q = `
SELECT role, content, created_at
  FROM chat_messages
 WHERE session_id = $1
 ORDER BY created_at ASC, id ASC;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		m := model.ChatMessage{SessionID: sessionID}
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Store(ctx, sessionID, messages)
	}
	return messages, nil
}

func (r *HistoryRepo) Append(ctx context.Context, m *model.ChatMessage) error {
	// A zero CreatedAt would sort the row before every existing turn.
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	const q = `
INSERT INTO chat_messages (session_id, role, content, created_at)
VALUES ($1, $2, $3, $4);`
	if _, err := r.pool.Exec(ctx, q, m.SessionID, m.Role, m.Content, createdAt); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if r.cache != nil {
		_ = r.cache.Invalidate(ctx, m.SessionID)
	}
	return nil
}
