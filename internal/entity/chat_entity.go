package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is immutable once created and append-only within a session.
// Insertion order is display order.
type ChatMessage struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"` // "user" | "assistant"
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is one user-facing conversation. Sessions are created locally
// with a generated id; UserId is set when the session is mirrored to the
// remote store on explicit save, at which point the session adopts the
// identifier the store returned.
type ChatSession struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	Title     string
	Messages  []ChatMessage
	CreatedAt time.Time
	UpdatedAt *time.Time
	Saved     bool // has a remote record
}
