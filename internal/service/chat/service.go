package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/chat"
)

var (
	ErrUserRequired = errors.New("user id is required")
	ErrUserNotFound = errors.New("user not found")
)

// Service keeps the transcript of routed exchanges per user in memory.
type Service struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
	now      func() time.Time
}

// NewService bootstraps the in-memory transcript store.
func NewService() *Service {
	return &Service{
		messages: make(map[string][]chat.Message),
		now:      time.Now,
	}
}

// SaveMessage appends a message to the user's transcript.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if message.UserID == "" {
		return chat.Message{}, ErrUserRequired
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	s.messages[message.UserID] = append(s.messages[message.UserID], message)
	s.mu.Unlock()

	return message, nil
}

// RecordExchange stores the user's message and the final reply in order.
func (s *Service) RecordExchange(ctx context.Context, userID, userMessage, reply, category string) error {
	if _, err := s.SaveMessage(ctx, chat.Message{
		UserID:  userID,
		Sender:  chat.SenderUser,
		Content: userMessage,
	}); err != nil {
		return err
	}
	_, err := s.SaveMessage(ctx, chat.Message{
		UserID:   userID,
		Sender:   chat.SenderAssistant,
		Content:  reply,
		Category: category,
	})
	return err
}

// LoadTranscript returns stored messages for the provided user.
func (s *Service) LoadTranscript(_ context.Context, userID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[userID]
	if !ok {
		return nil, ErrUserNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}
