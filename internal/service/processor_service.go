package service

import (
	"context"
	"encoding/json"
	"time"

	"academic-ai-be/internal/constant"
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/pkg/logger"
	"academic-ai-be/internal/repository/memory"
	"academic-ai-be/internal/repository/unitofwork"
	"academic-ai-be/pkg/events"
	pktNats "academic-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IProcessorService consumes queued uploads and extracts their content.
type IProcessorService interface {
	Consume(ctx context.Context) error
}

type processorService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	workspaces     *memory.WorkspaceRepository
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewProcessorService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	workspaces *memory.WorkspaceRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IProcessorService {
	return &processorService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		workspaces:     workspaces,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (ps *processorService) Consume(ctx context.Context) error {
	messages, err := ps.pubSub.Subscribe(ctx, ps.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ps.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ps *processorService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ps.log.Error("ProcessorService", "failed to unmarshal process message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	ps.log.Info("ProcessorService", "processing document", map[string]interface{}{"document_id": payload.DocumentId})

	ws := ps.workspaces.Get(payload.UserId)
	document, ok := ws.Documents.Get(payload.DocumentId)
	if !ok {
		// Deleted before processing ran.
		ps.log.Warn("ProcessorService", "document no longer in workspace", map[string]interface{}{"document_id": payload.DocumentId})
		msg.Ack()
		return
	}

	// There is no real PDF text extraction here; the document gets the
	// placeholder content and moves to "processed".
	document.Content = constant.DocumentPlaceholderContent
	now := time.Now()
	document.UpdatedAt = &now

	if payload.UserId != uuid.Nil {
		uow := ps.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DocumentRepository().UpdateStatus(ctx, payload.DocumentId, constant.DocumentStatusProcessed); err != nil {
			ps.log.Error("ProcessorService", "failed to persist document status", map[string]interface{}{"document_id": payload.DocumentId, "error": err.Error()})
			document.Status = constant.DocumentStatusFailed
			ps.publishFailed(ctx, payload, document.Name, err)
			msg.Nack() // Retriable
			return
		}
	}

	document.Status = constant.DocumentStatusProcessed
	ps.log.Info("ProcessorService", "document processed", map[string]interface{}{"document_id": payload.DocumentId})
	msg.Ack()
}

func (ps *processorService) publishFailed(ctx context.Context, payload dto.ProcessDocumentMessage, name string, cause error) {
	if ps.eventPublisher == nil {
		return
	}
	event := events.NewDocumentFailedEvent(payload.UserId, payload.DocumentId, name, cause.Error())
	if err := ps.eventPublisher.Publish(ctx, event); err != nil {
		ps.log.Warn("ProcessorService", "failed to publish DOCUMENT_FAILED event", map[string]interface{}{"error": err.Error()})
	}
}
