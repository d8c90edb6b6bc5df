package model

import (
	"time"
)

// Message roles as stored and as sent to completion providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn in a conversation. Immutable once written;
// a session is the ordered sequence of messages sharing a SessionID.
type ChatMessage struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserMessage(sessionID, content string) *ChatMessage {
	return &ChatMessage{
		SessionID: sessionID,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func NewAssistantMessage(sessionID, content string) *ChatMessage {
	return &ChatMessage{
		SessionID: sessionID,
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
