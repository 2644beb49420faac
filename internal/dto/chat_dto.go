package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageDTO struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	MessageCount int        `json:"message_count"`
	Saved        bool       `json:"saved"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type CreateSessionResponse struct {
	Id       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	Greeting ChatMessageDTO `json:"greeting"`
}

type LoadWorkspaceResponse struct {
	Sessions        []SessionSummaryResponse `json:"sessions"`
	ActiveSessionId *uuid.UUID               `json:"active_session_id"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Content       string    `json:"content"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID       `json:"chat_session_id"`
	Title         string          `json:"title"`
	Sent          *ChatMessageDTO `json:"sent"`
	Reply         *ChatMessageDTO `json:"reply"`
}

type SaveSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}
