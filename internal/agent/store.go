package agent

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/soymode/jarvis/internal/domain"
)

// ConversationStore is the durable, ordered turn history the agent reads and
// appends. Appends are atomic; persisted turns are never edited or reordered.
type ConversationStore interface {
	// CreateConversation starts a new conversation and returns its id.
	CreateConversation(title string) (string, error)

	// GetConversation returns a conversation summary, or nil if absent.
	GetConversation(id string) (*domain.Conversation, error)

	// ListConversations returns recent conversations, newest first.
	ListConversations(limit int) ([]domain.Conversation, error)

	// AddMessage appends a turn and bumps the conversation's update
	// timestamp.
	AddMessage(conversationID string, msg domain.Message) error

	// GetMessages returns a conversation's turns in insertion order.
	GetMessages(conversationID string) ([]domain.Message, error)

	// MessageCount returns the number of turns in a conversation.
	MessageCount(conversationID string) (int, error)
}

// MemoryConversationStore is an in-memory ConversationStore. It backs tests
// and sessions that should not touch disk.
type MemoryConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	messages      map[string][]domain.Message
}

// NewMemoryConversationStore creates an empty in-memory store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: make(map[string]*domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

func (s *MemoryConversationStore) CreateConversation(title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:        domain.NewConversationID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conv.ID] = conv
	return conv.ID, nil
}

func (s *MemoryConversationStore) GetConversation(id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	copied := *conv
	return &copied, nil
}

func (s *MemoryConversationStore) ListConversations(limit int) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	convs := make([]domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		convs = append(convs, *conv)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })
	if limit > 0 && len(convs) > limit {
		convs = convs[:limit]
	}
	return convs, nil
}

func (s *MemoryConversationStore) AddMessage(conversationID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("unknown conversation: %s", conversationID)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryConversationStore) GetMessages(conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryConversationStore) MessageCount(conversationID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[conversationID]), nil
}
