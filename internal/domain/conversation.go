package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is a persisted chat thread between the user and the agent.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewConversationID returns a short, retypeable conversation id derived from
// a random UUID. Twelve hex characters keeps /resume usable by hand.
func NewConversationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
