package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is metadata plus optionally extracted text for one uploaded file.
// Content is populated at most once, when the upload completes.
type Document struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	Name       string
	Size       int64
	MimeType   string
	UploadDate time.Time
	Content    string
	Status     string // "processing" | "processed" | "failed"
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
