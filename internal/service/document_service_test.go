package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"academic-ai-be/internal/constant"
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/pkg/serverutils"
	"academic-ai-be/internal/repository/memory"
	"academic-ai-be/pkg/inference"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentService(factory *fakeUowFactory, gateway *fakeGateway) (IDocumentService, *memory.WorkspaceRepository, *fakePublisher) {
	workspaces := memory.NewWorkspaceRepository()
	publisher := &fakePublisher{}
	svc := NewDocumentService(factory, gateway, workspaces, publisher, nil, nopLogger{})
	return svc, workspaces, publisher
}

func pdfUpload(name string, size int) *DocumentUpload {
	return &DocumentUpload{
		Filename: name,
		Size:     int64(size),
		MimeType: constant.DocumentMimeTypePDF,
		Content:  bytes.NewReader(make([]byte, size)),
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	svc, _, publisher := newTestDocumentService(newFakeUowFactory(), &fakeGateway{})

	_, err := svc.Upload(context.Background(), uuid.Nil, &DocumentUpload{
		Filename: "notes.docx",
		Size:     128,
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  bytes.NewReader(make([]byte, 128)),
	})

	var validationErr *serverutils.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, publisher.published)
}

func TestUploadReportsChunkedProgress(t *testing.T) {
	svc, ws, publisher := newTestDocumentService(newFakeUowFactory(), &fakeGateway{})

	const size = 100 * 1024 // 3 full chunks + remainder
	upload := pdfUpload("thesis.pdf", size)

	var reads []int64
	upload.OnProgress = func(read, total int64) {
		assert.Equal(t, int64(size), total)
		reads = append(reads, read)
	}

	resp, err := svc.Upload(context.Background(), uuid.Nil, upload)
	require.NoError(t, err)

	require.Len(t, reads, 4)
	assert.Equal(t, int64(32*1024), reads[0])
	assert.Equal(t, int64(size), reads[len(reads)-1])

	assert.Equal(t, constant.DocumentStatusProcessing, resp.Status)
	assert.Equal(t, int64(size), resp.Size)
	assert.Equal(t, []uuid.UUID{resp.Id}, publisher.published)

	documents := ws.Get(uuid.Nil).Documents
	active := documents.Active()
	require.NotNil(t, active)
	assert.Equal(t, resp.Id, active.Id)
}

func TestUploadPersistsForAuthenticatedUser(t *testing.T) {
	userId := uuid.New()
	factory := newFakeUowFactory()
	svc, _, _ := newTestDocumentService(factory, &fakeGateway{})

	resp, err := svc.Upload(context.Background(), userId, pdfUpload("paper.pdf", 2048))
	require.NoError(t, err)

	require.Len(t, factory.uow.docs.created, 1)
	created := factory.uow.docs.created[0]
	assert.Equal(t, resp.Id, created.Id)
	require.NotNil(t, created.UserId)
	assert.Equal(t, userId, *created.UserId)
	assert.Equal(t, constant.DocumentStatusProcessing, created.Status)
}

func TestGetAllDocumentsRestoresFromDatabase(t *testing.T) {
	userId := uuid.New()
	factory := newFakeUowFactory()
	factory.uow.docs.stored = []*entity.Document{
		{Id: uuid.New(), Name: "a.pdf", UploadDate: time.Now().Add(-time.Hour), Status: constant.DocumentStatusProcessed},
		{Id: uuid.New(), Name: "b.pdf", UploadDate: time.Now(), Status: constant.DocumentStatusProcessing},
	}
	svc, ws, _ := newTestDocumentService(factory, &fakeGateway{})

	resp, err := svc.GetAllDocuments(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "a.pdf", resp[0].Name)
	assert.Equal(t, 2, ws.Get(userId).Documents.Len())
}

func TestAnalyzeSeedsDocumentConversation(t *testing.T) {
	gateway := &fakeGateway{summary: "The paper argues that spaced repetition improves retention."}
	svc, ws, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("study.pdf", 512))
	require.NoError(t, err)

	resp, err := svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)

	assert.Equal(t, gateway.summary, resp.Summary.Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, resp.Summary.Sender)

	// Content extraction is asynchronous; until it lands the placeholder
	// text stands in for the document body.
	assert.Equal(t, constant.DocumentPlaceholderContent, gateway.lastAnalyzed.Content)
	assert.Equal(t, "study.pdf", gateway.lastAnalyzed.Title)

	history := ws.Get(uuid.Nil).DocChat.History(uploaded.Id)
	require.Len(t, history, 1)
	assert.Equal(t, gateway.summary, history[0].Content)
}

func TestAnalyzeFailureLeavesStateUntouched(t *testing.T) {
	gateway := &fakeGateway{}
	svc, ws, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	first, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("first.pdf", 128))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("second.pdf", 128))
	require.NoError(t, err)

	gateway.err = &inference.GatewayError{Op: "analyze", StatusCode: 500, Message: "internal error"}

	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: first.Id})

	var gatewayErr *inference.GatewayError
	require.ErrorAs(t, err, &gatewayErr)

	// No chat panel was opened and the document stayed pre-analysis: the
	// conversation is unseeded and the active document did not change.
	assert.Empty(t, ws.Get(uuid.Nil).DocChat.History(first.Id))
	active := ws.Get(uuid.Nil).Documents.Active()
	require.NotNil(t, active)
	assert.Equal(t, second.Id, active.Id)

	// A later attempt with a healthy gateway succeeds.
	gateway.err = nil
	gateway.summary = "recovered summary"
	resp, err := svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: first.Id})
	require.NoError(t, err)
	assert.Equal(t, "recovered summary", resp.Summary.Content)
}

func TestAnalyzeAgainResetsConversation(t *testing.T) {
	gateway := &fakeGateway{summary: "summary", answer: "answer"}
	svc, ws, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("study.pdf", 512))
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), uuid.Nil, &dto.AskDocumentRequest{DocumentId: uploaded.Id, Question: "why?"})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)

	history := ws.Get(uuid.Nil).DocChat.History(uploaded.Id)
	assert.Len(t, history, 1)
}

func TestAskCarriesConversationHistory(t *testing.T) {
	gateway := &fakeGateway{summary: "initial summary", answer: "because entropy increases"}
	svc, ws, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("physics.pdf", 256))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)

	resp, err := svc.Ask(context.Background(), uuid.Nil, &dto.AskDocumentRequest{
		DocumentId:     uploaded.Id,
		Question:       "Why is the process irreversible?",
		ResponseLength: "short",
		TechnicalDepth: "expert",
	})
	require.NoError(t, err)

	assert.Equal(t, gateway.answer, resp.Answer.Content)
	assert.Equal(t, "Why is the process irreversible?", resp.Question.Content)

	// The summary seeded by Analyze is the only prior turn.
	require.Len(t, gateway.lastAskHistory, 1)
	assert.Equal(t, "initial summary", gateway.lastAskHistory[0].Content)
	assert.Equal(t, "short", gateway.lastOptions.ResponseLength)
	assert.Equal(t, "expert", gateway.lastOptions.TechnicalDepth)

	history := ws.Get(uuid.Nil).DocChat.History(uploaded.Id)
	require.Len(t, history, 3)
	assert.Equal(t, constant.ChatMessageRoleUser, history[1].Sender)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[2].Sender)
}

func TestAskDefaultsOptions(t *testing.T) {
	gateway := &fakeGateway{summary: "summary", answer: "it depends"}
	svc, _, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("notes.pdf", 64))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), uuid.Nil, &dto.AskDocumentRequest{
		DocumentId: uploaded.Id,
		Question:   "what about chapter two?",
	})
	require.NoError(t, err)

	assert.Equal(t, "medium", gateway.lastOptions.ResponseLength)
	assert.Equal(t, "general", gateway.lastOptions.TechnicalDepth)
}

func TestAskRequiresPriorAnalysis(t *testing.T) {
	gateway := &fakeGateway{answer: "an answer from nowhere"}
	svc, _, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("fresh.pdf", 64))
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), uuid.Nil, &dto.AskDocumentRequest{
		DocumentId: uploaded.Id,
		Question:   "what does it say?",
	})

	var validationErr *serverutils.ValidationError
	require.ErrorAs(t, err, &validationErr)
	// The gateway must never see the question.
	assert.Empty(t, gateway.lastQuestion)
}

func TestDeleteDocumentClearsWorkspaceAndConversation(t *testing.T) {
	gateway := &fakeGateway{summary: "summary"}
	svc, ws, _ := newTestDocumentService(newFakeUowFactory(), gateway)

	uploaded, err := svc.Upload(context.Background(), uuid.Nil, pdfUpload("old.pdf", 128))
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), uuid.Nil, &dto.AnalyzeDocumentRequest{DocumentId: uploaded.Id})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), uuid.Nil, uploaded.Id))

	documents := ws.Get(uuid.Nil).Documents
	assert.Zero(t, documents.Len())
	assert.Nil(t, documents.Active())
	assert.Empty(t, ws.Get(uuid.Nil).DocChat.History(uploaded.Id))
}

func TestDeleteDocumentUnknown(t *testing.T) {
	svc, _, _ := newTestDocumentService(newFakeUowFactory(), &fakeGateway{})

	err := svc.DeleteDocument(context.Background(), uuid.Nil, uuid.New())

	var validationErr *serverutils.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
