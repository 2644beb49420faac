package dto

import "github.com/google/uuid"

// ProcessDocumentMessage is the payload published when an uploaded document
// is queued for content processing.
type ProcessDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	UserId     uuid.UUID `json:"user_id"`
}
