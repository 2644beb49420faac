package mapper

import (
	"encoding/json"
	"time"

	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var messages []entity.ChatMessage
	if len(s.Messages) > 0 {
		// Malformed rows surface as an empty transcript rather than an error;
		// the remote store owns the canonical shape.
		_ = json.Unmarshal(s.Messages, &messages)
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	userId := s.UserId
	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    &userId,
		Title:     s.Title,
		Messages:  messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		Saved:     true,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	messages := s.Messages
	if messages == nil {
		messages = []entity.ChatMessage{}
	}
	messagesJson, _ := json.Marshal(messages)

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var userId uuid.UUID
	if s.UserId != nil {
		userId = *s.UserId
	}

	return &model.ChatSession{
		Id:        s.Id,
		UserId:    userId,
		Title:     s.Title,
		Messages:  datatypes.JSON(messagesJson),
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
