package conversation

import (
	"encoding/json"
	"time"
)

// Role identifies who authored a log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one immutable line of a session's conversation log.
type Entry struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	Role      Role           `json:"message_type"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

// HistoryLine renders the entry the way prompts quote prior turns.
func (e Entry) HistoryLine() string {
	return string(e.Role) + ": " + e.Content
}

// Session is the upserted per-session record.
type Session struct {
	SessionID    string          `json:"session_id"`
	UserID       string          `json:"user_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	Context      json.RawMessage `json:"context,omitempty"`
	MessageCount int             `json:"message_count"`
}

// CleanupResult reports what a housekeeping pass removed.
type CleanupResult struct {
	MessagesDeleted int64 `json:"messages_deleted"`
	SessionsDeleted int64 `json:"sessions_deleted"`
}
