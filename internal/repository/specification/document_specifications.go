package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// UploadedSince filters documents uploaded on or after the given instant.
type UploadedSince struct {
	Since time.Time
}

func (s UploadedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("upload_date >= ?", s.Since)
}
