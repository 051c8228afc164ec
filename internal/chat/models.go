package chat

import "time"

// Session is one stored conversation.
type Session struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// StoredMessage is one persisted conversation turn.
type StoredMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	AgentType string    `json:"agent_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageView is a stored message enriched with the classifier's
// resolution, so history renders with the same agent attribution as the
// live stream.
type MessageView struct {
	StoredMessage
	Index      int    `json:"index"`
	AgentKey   string `json:"agent_key,omitempty"`
	AgentLabel string `json:"agent_label,omitempty"`
	SaveState  string `json:"save_state,omitempty"`
}

// StreamChatRequest is the POST /api/v1/chat/stream body.
type StreamChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}
