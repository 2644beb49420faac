package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeUserLogin        = "USER_LOGIN"
	TypeChatSessionSaved = "CHAT_SESSION_SAVED"
	TypeDocumentAnalyzed = "DOCUMENT_ANALYZED"
	TypeDocumentFailed   = "DOCUMENT_FAILED"
)

func NewUserLoginEvent(userId uuid.UUID, email string) Event {
	return BaseEvent{
		Type: TypeUserLogin,
		Data: map[string]interface{}{
			"user_id": userId.String(),
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatSessionSavedEvent(userId, sessionId uuid.UUID, title string) Event {
	return BaseEvent{
		Type: TypeChatSessionSaved,
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
			"title":      title,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentAnalyzedEvent(userId, documentId uuid.UUID, name string) Event {
	return BaseEvent{
		Type: TypeDocumentAnalyzed,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"document_id": documentId.String(),
			"name":        name,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentFailedEvent(userId, documentId uuid.UUID, name string, reason string) Event {
	return BaseEvent{
		Type: TypeDocumentFailed,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"document_id": documentId.String(),
			"name":        name,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}
