package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soymode/jarvis/internal/domain"
)

// SQLiteConversationStore implements agent.ConversationStore backed by SQLite.
// Turn history is append-only; persisted rows are never updated in place.
type SQLiteConversationStore struct {
	db *DB
}

// NewConversationStore creates a conversation store using the given database.
func NewConversationStore(db *DB) *SQLiteConversationStore {
	return &SQLiteConversationStore{db: db}
}

// CreateConversation inserts a new conversation and returns its id.
func (s *SQLiteConversationStore) CreateConversation(title string) (string, error) {
	id := domain.NewConversationID()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.sql.Exec(
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, title, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}
	return id, nil
}

// GetConversation returns a conversation by id, or nil if absent.
func (s *SQLiteConversationStore) GetConversation(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	var createdAt, updatedAt string

	err := s.db.sql.QueryRow(
		`SELECT id, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.Title, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s: %w", id, err)
	}

	conv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	conv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &conv, nil
}

// ListConversations returns the most recently updated conversations, newest
// first.
func (s *SQLiteConversationStore) ListConversations(limit int) ([]domain.Conversation, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var createdAt, updatedAt string
		if err := rows.Scan(&conv.ID, &conv.Title, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		conv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		conv.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// AddMessage appends a turn to a conversation and bumps its update timestamp.
// Both writes happen in one transaction so the append is atomic.
func (s *SQLiteConversationStore) AddMessage(conversationID string, msg domain.Message) error {
	toolCalls, err := marshalList(msg.ToolCalls)
	if err != nil {
		return fmt.Errorf("encoding tool calls: %w", err)
	}
	toolResults, err := marshalList(msg.ToolResults)
	if err != nil {
		return fmt.Errorf("encoding tool results: %w", err)
	}

	ts := msg.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO messages (conversation_id, role, content, tool_calls, tool_results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conversationID, msg.Role, msg.Content, toolCalls, toolResults,
		ts.UTC().Format(time.RFC3339),
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("appending message: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), conversationID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("updating conversation timestamp: %w", err)
	}

	return tx.Commit()
}

// GetMessages returns a conversation's turns in insertion order.
func (s *SQLiteConversationStore) GetMessages(conversationID string) ([]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT role, content, tool_calls, tool_results, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var toolCalls, toolResults, createdAt string
		if err := rows.Scan(&msg.Role, &msg.Content, &toolCalls, &toolResults, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(toolCalls), &msg.ToolCalls); err != nil {
			return nil, fmt.Errorf("decoding tool calls: %w", err)
		}
		if err := json.Unmarshal([]byte(toolResults), &msg.ToolResults); err != nil {
			return nil, fmt.Errorf("decoding tool results: %w", err)
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MessageCount returns the number of turns in a conversation.
func (s *SQLiteConversationStore) MessageCount(conversationID string) (int, error) {
	var count int
	err := s.db.sql.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// marshalList encodes a slice as a JSON array, using "[]" for empty so stored
// rows always decode without nil checks.
func marshalList(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}
