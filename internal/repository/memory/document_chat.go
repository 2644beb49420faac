package memory

import (
	"sync"

	"github.com/google/uuid"

	"academic-ai-be/internal/entity"
)

// DocumentChat holds the per-document analysis conversation. It lives only
// in the workspace; closing the panel or deleting the document discards it.
type DocumentChat struct {
	mu       sync.RWMutex
	messages map[uuid.UUID][]entity.ChatMessage
}

func NewDocumentChat() *DocumentChat {
	return &DocumentChat{
		messages: make(map[uuid.UUID][]entity.ChatMessage),
	}
}

func (c *DocumentChat) Append(documentId uuid.UUID, msgs ...entity.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages[documentId] = append(c.messages[documentId], msgs...)
}

func (c *DocumentChat) History(documentId uuid.UUID) []entity.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := c.messages[documentId]
	out := make([]entity.ChatMessage, len(history))
	copy(out, history)
	return out
}

// Reset replaces the conversation, used when a fresh analysis reseeds it.
func (c *DocumentChat) Reset(documentId uuid.UUID, msgs ...entity.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages[documentId] = msgs
}

func (c *DocumentChat) Clear(documentId uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.messages, documentId)
}
