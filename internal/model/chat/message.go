package chat

import "time"

// Sender values stored in the transcript.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one turn of a routed exchange, kept for audit/debug.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
