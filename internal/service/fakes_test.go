package service

import (
	"context"
	"io"
	"sync"

	"academic-ai-be/internal/entity"
	"academic-ai-be/internal/repository/contract"
	"academic-ai-be/internal/repository/specification"
	"academic-ai-be/internal/repository/unitofwork"
	"academic-ai-be/pkg/inference"

	"github.com/google/uuid"
)

// In-memory stand-ins for the database and inference backends so the
// services can be exercised without external processes.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeGateway struct {
	reply   string
	summary string
	answer  string
	err     error

	completeCalls  int
	lastTranscript []inference.Turn
	lastMessage    string

	lastAnalyzed inference.Document

	lastAskDoc     inference.Document
	lastAskHistory []inference.Turn
	lastQuestion   string
	lastOptions    *inference.AskOptions
}

func (g *fakeGateway) Complete(ctx context.Context, transcript []inference.Turn, userMessage string) (string, error) {
	g.completeCalls++
	g.lastTranscript = transcript
	g.lastMessage = userMessage
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGateway) Analyze(ctx context.Context, doc inference.Document) (string, error) {
	g.lastAnalyzed = doc
	if g.err != nil {
		return "", g.err
	}
	return g.summary, nil
}

func (g *fakeGateway) Ask(ctx context.Context, doc inference.Document, history []inference.Turn, question string, opts ...inference.AskOption) (string, error) {
	g.lastAskDoc = doc
	g.lastAskHistory = history
	g.lastQuestion = question
	options := inference.DefaultAskOptions()
	for _, opt := range opts {
		opt(options)
	}
	g.lastOptions = options
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

type fakeTranscriber struct {
	transcript string
	err        error
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return t.transcript, nil
}

type fakePublisher struct {
	published []uuid.UUID
	err       error
}

func (p *fakePublisher) PublishProcessDocument(documentId uuid.UUID, userId uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, documentId)
	return nil
}

type fakeUserRepository struct {
	byEmail map[string]*entity.User
	created []*entity.User
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	copied := *user
	r.created = append(r.created, &copied)
	if r.byEmail == nil {
		r.byEmail = make(map[string]*entity.User)
	}
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *fakeUserRepository) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepository) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

func (r *fakeUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byEmail, ok := spec.(specification.ByEmail); ok {
			return r.byEmail[byEmail.Email], nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.byEmail)), nil
}

type fakeChatSessionRepository struct {
	created []*entity.ChatSession
	updated []*entity.ChatSession
	deleted []uuid.UUID
	stored  []*entity.ChatSession
	findOne *entity.ChatSession
	err     error
}

func (r *fakeChatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	if r.err != nil {
		return r.err
	}
	copied := *session
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeChatSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	if r.err != nil {
		return r.err
	}
	copied := *session
	r.updated = append(r.updated, &copied)
	return nil
}

func (r *fakeChatSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeChatSessionRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (r *fakeChatSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return r.findOne, r.err
}

func (r *fakeChatSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	return r.stored, r.err
}

func (r *fakeChatSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.stored)), r.err
}

type fakeDocumentRepository struct {
	mu            sync.Mutex
	created       []*entity.Document
	deleted       []uuid.UUID
	statusUpdates map[uuid.UUID]string
	stored        []*entity.Document
	findOne       *entity.Document

	countTotal      int64
	countProcessed  int64
	countProcessing int64

	err error
}

func (r *fakeDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	if r.err != nil {
		return r.err
	}
	copied := *document
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeDocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	return r.err
}

func (r *fakeDocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[uuid.UUID]string)
	}
	r.statusUpdates[id] = status
	return nil
}

func (r *fakeDocumentRepository) statusOf(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusUpdates[id]
}

func (r *fakeDocumentRepository) statusUpdateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statusUpdates)
}

func (r *fakeDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return r.findOne, r.err
}

func (r *fakeDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return r.stored, r.err
}

func (r *fakeDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	for _, spec := range specs {
		if byStatus, ok := spec.(specification.ByStatus); ok {
			switch byStatus.Status {
			case "processed":
				return r.countProcessed, nil
			case "processing":
				return r.countProcessing, nil
			}
		}
	}
	return r.countTotal, nil
}

type fakeUnitOfWork struct {
	users *fakeUserRepository
	chats *fakeChatSessionRepository
	docs  *fakeDocumentRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.chats
}

func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.docs
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUnitOfWork{
			users: &fakeUserRepository{},
			chats: &fakeChatSessionRepository{},
			docs:  &fakeDocumentRepository{},
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
