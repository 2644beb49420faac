package service

import (
	"context"
	"fmt"

	"academic-ai-be/internal/pkg/logger"
	"academic-ai-be/internal/websocket"
	"academic-ai-be/pkg/events"
	pktNats "academic-ai-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notice websocket.Notice)
	Broadcast(notice websocket.Notice)
}

// NotificationService turns domain events into transient toast notices.
// Notices are push-only; nothing is stored.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", "Processing event", map[string]interface{}{"type": event.EventType()})

	notice, ok := noticeFor(event)
	if !ok {
		return nil
	}

	if s.delivery == nil {
		return nil
	}

	payload := event.Payload()
	if uidStr, ok := payload["user_id"].(string); ok {
		if uid, err := uuid.Parse(uidStr); err == nil && uid != uuid.Nil {
			s.delivery.Send(uid, notice)
			return nil
		}
	}

	s.delivery.Broadcast(notice)
	return nil
}

func noticeFor(event events.Event) (websocket.Notice, bool) {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeChatSessionSaved:
		title, _ := payload["title"].(string)
		return websocket.Notice{
			Variant:     websocket.NoticeVariantSuccess,
			Title:       "Conversation saved",
			Description: title,
		}, true

	case events.TypeDocumentAnalyzed:
		name, _ := payload["name"].(string)
		return websocket.Notice{
			Variant:     websocket.NoticeVariantSuccess,
			Title:       "Analysis ready",
			Description: fmt.Sprintf("Analysis of %s is ready", name),
		}, true

	case events.TypeDocumentFailed:
		name, _ := payload["name"].(string)
		return websocket.Notice{
			Variant:     websocket.NoticeVariantError,
			Title:       "Processing failed",
			Description: fmt.Sprintf("Could not process %s", name),
		}, true
	}

	return websocket.Notice{}, false
}
