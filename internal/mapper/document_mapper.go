package mapper

import (
	"time"

	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/model"

	"github.com/google/uuid"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	userId := d.UserId
	return &entity.Document{
		Id:         d.Id,
		UserId:     &userId,
		Name:       d.Name,
		Size:       d.Size,
		MimeType:   d.MimeType,
		UploadDate: d.UploadDate,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var userId uuid.UUID
	if d.UserId != nil {
		userId = *d.UserId
	}

	return &model.Document{
		Id:         d.Id,
		UserId:     userId,
		Name:       d.Name,
		Size:       d.Size,
		MimeType:   d.MimeType,
		UploadDate: d.UploadDate,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *DocumentMapper) DocumentsToEntities(models []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(models))
	for i, d := range models {
		entities[i] = m.DocumentToEntity(d)
	}
	return entities
}
