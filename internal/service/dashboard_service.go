package service

import (
	"context"
	"time"

	"academic-ai-be/internal/constant"
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/repository/specification"
	"academic-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// uploadActivityDays is the width of the dashboard activity chart.
const uploadActivityDays = 7

type IDashboardService interface {
	GetDashboard(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDashboardService(uowFactory unitofwork.RepositoryFactory) IDashboardService {
	return &dashboardService{
		uowFactory: uowFactory,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userId uuid.UUID) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalDocuments, err := uow.DocumentRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	totalSessions, err := uow.ChatSessionRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	processed, err := uow.DocumentRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: constant.DocumentStatusProcessed},
	)
	if err != nil {
		return nil, err
	}

	processing, err := uow.DocumentRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: constant.DocumentStatusProcessing},
	)
	if err != nil {
		return nil, err
	}

	windowStart := startOfDay(time.Now()).AddDate(0, 0, -(uploadActivityDays - 1))
	recent, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.UploadedSince{Since: windowStart},
	)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalDocuments:  totalDocuments,
		TotalSessions:   totalSessions,
		ProcessedCount:  processed,
		ProcessingCount: processing,
		UploadActivity:  GroupUploadsByDay(recent, time.Now()),
	}, nil
}

// GroupUploadsByDay buckets uploads into one entry per day over the chart
// window, oldest day first. Days without uploads still get a zero bucket so
// the chart axis stays continuous.
func GroupUploadsByDay(documents []*entity.Document, now time.Time) []dto.UploadActivityBucket {
	start := startOfDay(now).AddDate(0, 0, -(uploadActivityDays - 1))

	counts := make(map[string]int)
	for _, document := range documents {
		day := startOfDay(document.UploadDate)
		if day.Before(start) {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}

	buckets := make([]dto.UploadActivityBucket, 0, uploadActivityDays)
	for i := 0; i < uploadActivityDays; i++ {
		day := start.AddDate(0, 0, i)
		buckets = append(buckets, dto.UploadActivityBucket{
			Day:     day.Format("Mon"),
			Uploads: counts[day.Format("2006-01-02")],
		})
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
