package service

import (
	"context"
	"testing"
	"time"

	"academic-ai-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadedAt(t time.Time) *entity.Document {
	return &entity.Document{Id: uuid.New(), UploadDate: t}
}

func TestGroupUploadsByDay(t *testing.T) {
	now := time.Date(2026, time.March, 8, 15, 30, 0, 0, time.UTC) // a Sunday

	documents := []*entity.Document{
		uploadedAt(now),
		uploadedAt(now.Add(-2 * time.Hour)),
		uploadedAt(now.AddDate(0, 0, -1)),
		uploadedAt(now.AddDate(0, 0, -6)),
		uploadedAt(now.AddDate(0, 0, -10)), // outside the window
	}

	buckets := GroupUploadsByDay(documents, now)
	require.Len(t, buckets, 7)

	// Oldest day first, today last.
	assert.Equal(t, "Mon", buckets[0].Day)
	assert.Equal(t, "Sun", buckets[6].Day)

	assert.Equal(t, 1, buckets[0].Uploads) // six days ago
	assert.Equal(t, 1, buckets[5].Uploads) // yesterday
	assert.Equal(t, 2, buckets[6].Uploads) // today

	// Empty days still appear so the chart axis stays continuous.
	for _, i := range []int{1, 2, 3, 4} {
		assert.Zero(t, buckets[i].Uploads)
	}
}

func TestGroupUploadsByDayEmpty(t *testing.T) {
	buckets := GroupUploadsByDay(nil, time.Now())
	require.Len(t, buckets, 7)
	for _, bucket := range buckets {
		assert.Zero(t, bucket.Uploads)
	}
}

func TestGetDashboard(t *testing.T) {
	userId := uuid.New()
	factory := newFakeUowFactory()
	factory.uow.docs.countTotal = 5
	factory.uow.docs.countProcessed = 3
	factory.uow.docs.countProcessing = 2
	factory.uow.docs.stored = []*entity.Document{
		uploadedAt(time.Now()),
		uploadedAt(time.Now().AddDate(0, 0, -1)),
	}
	factory.uow.chats.stored = []*entity.ChatSession{
		{Id: uuid.New(), Title: "saved", CreatedAt: time.Now()},
	}

	svc := NewDashboardService(factory)

	resp, err := svc.GetDashboard(context.Background(), userId)
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.TotalDocuments)
	assert.Equal(t, int64(1), resp.TotalSessions)
	assert.Equal(t, int64(3), resp.ProcessedCount)
	assert.Equal(t, int64(2), resp.ProcessingCount)
	require.Len(t, resp.UploadActivity, 7)

	var total int
	for _, bucket := range resp.UploadActivity {
		total += bucket.Uploads
	}
	assert.Equal(t, 2, total)
}
