package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"academic-ai-be/internal/constant"
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/pkg/logger"
	"academic-ai-be/internal/pkg/serverutils"
	"academic-ai-be/internal/repository/memory"
	"academic-ai-be/internal/repository/specification"
	"academic-ai-be/internal/repository/unitofwork"
	"academic-ai-be/pkg/events"
	"academic-ai-be/pkg/inference"
	pktNats "academic-ai-be/pkg/nats"

	"github.com/google/uuid"
)

// uploadChunkSize is how much of the incoming file is consumed between
// progress callbacks.
const uploadChunkSize = 32 * 1024

// DocumentUpload carries an incoming file and an optional progress hook.
// OnProgress is invoked after every consumed chunk with the running byte
// count, so callers can surface real upload progress.
type DocumentUpload struct {
	Filename   string
	Size       int64
	MimeType   string
	Content    io.Reader
	OnProgress func(read, total int64)
}

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, upload *DocumentUpload) (*dto.DocumentResponse, error)
	GetAllDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Analyze(ctx context.Context, userId uuid.UUID, request *dto.AnalyzeDocumentRequest) (*dto.AnalyzeDocumentResponse, error)
	Ask(ctx context.Context, userId uuid.UUID, request *dto.AskDocumentRequest) (*dto.AskDocumentResponse, error)
	DeleteDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        inference.Gateway
	workspaces     *memory.WorkspaceRepository
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	gateway inference.Gateway,
	workspaces *memory.WorkspaceRepository,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		workspaces:     workspaces,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Upload accepts a PDF, consumes it chunk by chunk while reporting progress,
// and registers the document with status "processing". Content extraction
// happens asynchronously via the processing queue.
func (ds *documentService) Upload(ctx context.Context, userId uuid.UUID, upload *DocumentUpload) (*dto.DocumentResponse, error) {
	if upload.MimeType != constant.DocumentMimeTypePDF {
		return nil, serverutils.NewValidationError("only PDF files are supported")
	}

	read, err := consume(upload)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	document := &entity.Document{
		Id:         uuid.New(),
		Name:       upload.Filename,
		Size:       read,
		MimeType:   upload.MimeType,
		UploadDate: time.Now(),
		Status:     constant.DocumentStatusProcessing,
		CreatedAt:  time.Now(),
	}

	if userId != uuid.Nil {
		owner := userId
		document.UserId = &owner

		uow := ds.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DocumentRepository().Create(ctx, document); err != nil {
			return nil, err
		}
	}

	ws := ds.workspaces.Get(userId)
	ws.Documents.Upsert(document)
	ws.Documents.SetActive(document.Id)

	if err := ds.publisher.PublishProcessDocument(document.Id, userId); err != nil {
		ds.log.Warn("DocumentService", "failed to queue document for processing", map[string]interface{}{"document_id": document.Id, "error": err.Error()})
	}

	return documentResponse(document), nil
}

func consume(upload *DocumentUpload) (int64, error) {
	buf := make([]byte, uploadChunkSize)
	var read int64
	for {
		n, err := upload.Content.Read(buf)
		if n > 0 {
			read += int64(n)
			if upload.OnProgress != nil {
				upload.OnProgress(read, upload.Size)
			}
		}
		if err == io.EOF {
			return read, nil
		}
		if err != nil {
			return read, err
		}
	}
}

func documentResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:         document.Id,
		Name:       document.Name,
		Size:       document.Size,
		MimeType:   document.MimeType,
		UploadDate: document.UploadDate,
		Status:     document.Status,
	}
}

// GetAllDocuments lists the workspace documents, restoring them from the
// database on first access for authenticated users.
func (ds *documentService) GetAllDocuments(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	ws := ds.workspaces.Get(userId)

	if userId != uuid.Nil && ws.Documents.Len() == 0 {
		uow := ds.uowFactory.NewUnitOfWork(ctx)
		saved, err := uow.DocumentRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.OrderBy{Field: "upload_date", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		ws.Documents.Load(saved)
	}

	all := ws.Documents.All()
	response := make([]*dto.DocumentResponse, 0, len(all))
	for _, document := range all {
		response = append(response, documentResponse(document))
	}
	return response, nil
}

func (ds *documentService) findDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*entity.Document, error) {
	ws := ds.workspaces.Get(userId)
	if document, ok := ws.Documents.Get(documentId); ok {
		return document, nil
	}

	if userId == uuid.Nil {
		return nil, serverutils.NewValidationError("document not found")
	}

	uow := ds.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, serverutils.NewValidationError("document not found")
	}

	ws.Documents.Upsert(document)
	return document, nil
}

// Analyze asks the model for a summary of the document and seeds the
// document conversation with it. The document becomes the active panel.
func (ds *documentService) Analyze(ctx context.Context, userId uuid.UUID, request *dto.AnalyzeDocumentRequest) (*dto.AnalyzeDocumentResponse, error) {
	document, err := ds.findDocument(ctx, userId, request.DocumentId)
	if err != nil {
		return nil, err
	}

	content := document.Content
	if content == "" {
		content = constant.DocumentPlaceholderContent
	}

	summary, err := ds.gateway.Analyze(ctx, inference.Document{
		ID:       document.Id.String(),
		Title:    document.Name,
		Content:  content,
		Size:     document.Size,
		MimeType: document.MimeType,
	})
	if err != nil {
		return nil, err
	}

	summaryMessage := entity.ChatMessage{
		Id:        uuid.New(),
		Content:   summary,
		Sender:    constant.ChatMessageRoleAssistant,
		Timestamp: time.Now(),
	}

	ws := ds.workspaces.Get(userId)
	ws.DocChat.Reset(document.Id, summaryMessage)
	ws.Documents.SetActive(document.Id)

	if ds.eventPublisher != nil && userId != uuid.Nil {
		event := events.NewDocumentAnalyzedEvent(userId, document.Id, document.Name)
		if err := ds.eventPublisher.Publish(ctx, event); err != nil {
			ds.log.Warn("DocumentService", "failed to publish DOCUMENT_ANALYZED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.AnalyzeDocumentResponse{
		DocumentId: document.Id,
		Name:       document.Name,
		Summary: dto.ChatMessageDTO{
			Id:        summaryMessage.Id,
			Content:   summaryMessage.Content,
			Sender:    summaryMessage.Sender,
			Timestamp: summaryMessage.Timestamp,
		},
	}, nil
}

// Ask answers a question about the document, carrying the running document
// conversation so follow-ups stay in context.
func (ds *documentService) Ask(ctx context.Context, userId uuid.UUID, request *dto.AskDocumentRequest) (*dto.AskDocumentResponse, error) {
	document, err := ds.findDocument(ctx, userId, request.DocumentId)
	if err != nil {
		return nil, err
	}

	ws := ds.workspaces.Get(userId)
	history := ws.DocChat.History(document.Id)
	if len(history) == 0 {
		// The document conversation is seeded by Analyze; without it there
		// is no summary to anchor follow-up questions.
		return nil, serverutils.NewValidationError("document has not been analyzed")
	}

	turns := make([]inference.Turn, 0, len(history))
	for _, msg := range history {
		role := constant.ChatMessageRoleUser
		if msg.Sender == constant.ChatMessageRoleAssistant {
			role = constant.ChatMessageRoleAssistant
		}
		turns = append(turns, inference.Turn{
			Role:      role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	var opts []inference.AskOption
	if request.ResponseLength != "" {
		opts = append(opts, inference.WithResponseLength(request.ResponseLength))
	}
	if request.TechnicalDepth != "" {
		opts = append(opts, inference.WithTechnicalDepth(request.TechnicalDepth))
	}

	content := document.Content
	if content == "" {
		content = constant.DocumentPlaceholderContent
	}

	answer, err := ds.gateway.Ask(ctx, inference.Document{
		ID:       document.Id.String(),
		Title:    document.Name,
		Content:  content,
		Size:     document.Size,
		MimeType: document.MimeType,
	}, turns, request.Question, opts...)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	questionMessage := entity.ChatMessage{
		Id:        uuid.New(),
		Content:   request.Question,
		Sender:    constant.ChatMessageRoleUser,
		Timestamp: now,
	}
	answerMessage := entity.ChatMessage{
		Id:        uuid.New(),
		Content:   answer,
		Sender:    constant.ChatMessageRoleAssistant,
		Timestamp: now,
	}
	ws.DocChat.Append(document.Id, questionMessage, answerMessage)

	return &dto.AskDocumentResponse{
		DocumentId: document.Id,
		Question: &dto.ChatMessageDTO{
			Id:        questionMessage.Id,
			Content:   questionMessage.Content,
			Sender:    questionMessage.Sender,
			Timestamp: questionMessage.Timestamp,
		},
		Answer: &dto.ChatMessageDTO{
			Id:        answerMessage.Id,
			Content:   answerMessage.Content,
			Sender:    answerMessage.Sender,
			Timestamp: answerMessage.Timestamp,
		},
	}, nil
}

// DeleteDocument removes the document everywhere: database, workspace, and
// the document conversation. An open analysis panel for it is closed.
func (ds *documentService) DeleteDocument(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	ws := ds.workspaces.Get(userId)
	if _, ok := ws.Documents.Get(documentId); !ok {
		return serverutils.NewValidationError("document not found")
	}

	if userId != uuid.Nil {
		uow := ds.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
			return err
		}
	}

	ws.Documents.Remove(documentId)
	ws.DocChat.Clear(documentId)
	return nil
}
