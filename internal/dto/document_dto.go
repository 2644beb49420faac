package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadDate time.Time `json:"upload_date"`
	Status     string    `json:"status"`
}

type AnalyzeDocumentRequest struct {
	DocumentId uuid.UUID `json:"document_id" validate:"required"`
}

type AnalyzeDocumentResponse struct {
	DocumentId uuid.UUID      `json:"document_id"`
	Name       string         `json:"name"`
	Summary    ChatMessageDTO `json:"summary"`
}

type AskDocumentRequest struct {
	DocumentId     uuid.UUID `json:"document_id" validate:"required"`
	Question       string    `json:"question" validate:"required"`
	ResponseLength string    `json:"response_length" validate:"omitempty,oneof=short medium long"`
	TechnicalDepth string    `json:"technical_depth" validate:"omitempty,oneof=general technical expert"`
}

type AskDocumentResponse struct {
	DocumentId uuid.UUID       `json:"document_id"`
	Question   *ChatMessageDTO `json:"question"`
	Answer     *ChatMessageDTO `json:"answer"`
}
