package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document mirrors uploaded-file metadata only; extracted text stays local.
type Document struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name       string         `gorm:"type:text;not null"`
	Size       int64          `gorm:"not null"`
	MimeType   string         `gorm:"type:varchar(100);not null"`
	UploadDate time.Time      `gorm:"column:upload_date;not null;index"`
	Status     string         `gorm:"type:varchar(20);not null;default:'processing'"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
