package service

import (
	"context"
	"io"
	"strings"
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

// IChatService manages the conversation workspace: one active session at a
// time, local-first sessions that are only persisted on an explicit save.
type IChatService interface {
	Load(ctx context.Context, userId uuid.UUID) (*dto.LoadWorkspaceResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	SelectSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	SaveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SaveSessionResponse, error)
	ClearSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageDTO, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (*dto.TranscribeResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        inference.Gateway
	transcriber    inference.Transcriber
	workspaces     *memory.WorkspaceRepository
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	gateway inference.Gateway,
	transcriber inference.Transcriber,
	workspaces *memory.WorkspaceRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		gateway:        gateway,
		transcriber:    transcriber,
		workspaces:     workspaces,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// TitleFrom derives a session title from the first user message. Long
// messages are cut at 30 characters and suffixed with an ellipsis.
func TitleFrom(content string) string {
	runes := []rune(content)
	if len(runes) <= constant.ChatTitleMaxLen {
		return content
	}
	return string(runes[:constant.ChatTitleMaxLen]) + constant.ChatTitleEllipsis
}

func newGreeting() entity.ChatMessage {
	return entity.ChatMessage{
		Id:        uuid.New(),
		Content:   constant.ChatGreetingMessage,
		Sender:    constant.ChatMessageRoleAssistant,
		Timestamp: time.Now(),
	}
}

func newLocalSession(userId uuid.UUID) *entity.ChatSession {
	session := &entity.ChatSession{
		Id:        uuid.New(),
		Title:     constant.ChatDefaultSessionTitle,
		Messages:  []entity.ChatMessage{newGreeting()},
		CreatedAt: time.Now(),
	}
	if userId != uuid.Nil {
		owner := userId
		session.UserId = &owner
	}
	return session
}

// Load initializes the workspace. Authenticated users get their saved
// sessions restored; anonymous users and users with no saved sessions start
// with a single fresh conversation.
func (cs *chatService) Load(ctx context.Context, userId uuid.UUID) (*dto.LoadWorkspaceResponse, error) {
	ws := cs.workspaces.Get(userId)

	var sessions []*entity.ChatSession
	if userId != uuid.Nil {
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		saved, err := uow.ChatSessionRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}
		sessions = saved
	}

	ws.Sessions.Load(sessions)
	if ws.Sessions.Len() == 0 {
		ws.Sessions.Upsert(newLocalSession(userId))
	}

	all := ws.Sessions.All()
	ws.Sessions.SetActive(all[len(all)-1].Id)

	return cs.workspaceResponse(ws), nil
}

func (cs *chatService) workspaceResponse(ws *memory.Workspace) *dto.LoadWorkspaceResponse {
	all := ws.Sessions.All()
	summaries := make([]dto.SessionSummaryResponse, 0, len(all))
	for _, s := range all {
		summaries = append(summaries, dto.SessionSummaryResponse{
			Id:           s.Id,
			Title:        s.Title,
			MessageCount: len(s.Messages),
			Saved:        s.Saved,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}

	resp := &dto.LoadWorkspaceResponse{Sessions: summaries}
	if active := ws.Sessions.Active(); active != nil {
		id := active.Id
		resp.ActiveSessionId = &id
	}
	return resp
}

// CreateSession starts a new local conversation seeded with the greeting
// and makes it active. Nothing is persisted until the user saves.
func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	ws := cs.workspaces.Get(userId)

	session := newLocalSession(userId)
	ws.Sessions.Upsert(session)
	ws.Sessions.SetActive(session.Id)

	greeting := session.Messages[0]
	return &dto.CreateSessionResponse{
		Id:    session.Id,
		Title: session.Title,
		Greeting: dto.ChatMessageDTO{
			Id:        greeting.Id,
			Content:   greeting.Content,
			Sender:    greeting.Sender,
			Timestamp: greeting.Timestamp,
		},
	}, nil
}

func (cs *chatService) SelectSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	ws := cs.workspaces.Get(userId)
	if !ws.Sessions.SetActive(sessionId) {
		return serverutils.NewValidationError("session not found")
	}
	return nil
}

// SendChat appends the user's message, asks the model for a reply against
// the full conversation history, and appends the reply. A blank message is
// a silent no-op. The user message stays in the transcript even when the
// model call fails, so a retry carries the full context.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	ws := cs.workspaces.Get(userId)

	session, ok := ws.Sessions.Get(request.ChatSessionId)
	if !ok {
		return nil, serverutils.NewValidationError("session not found")
	}

	content := strings.TrimSpace(request.Content)
	if content == "" {
		return nil, nil
	}

	history := transcriptOf(session)

	userMessage := entity.ChatMessage{
		Id:        uuid.New(),
		Content:   content,
		Sender:    constant.ChatMessageRoleUser,
		Timestamp: time.Now(),
	}
	session.Messages = append(session.Messages, userMessage)

	if session.Title == constant.ChatDefaultSessionTitle {
		session.Title = TitleFrom(content)
	}

	reply, err := cs.gateway.Complete(ctx, history, content)
	if err != nil {
		return nil, err
	}

	assistantMessage := entity.ChatMessage{
		Id:        uuid.New(),
		Content:   reply,
		Sender:    constant.ChatMessageRoleAssistant,
		Timestamp: time.Now(),
	}
	session.Messages = append(session.Messages, assistantMessage)

	if session.Saved && userId != uuid.Nil {
		if err := cs.persistSession(ctx, session); err != nil {
			cs.log.Warn("ChatService", "failed to sync saved session", map[string]interface{}{"session_id": session.Id, "error": err.Error()})
		}
	}

	return &dto.SendChatResponse{
		ChatSessionId: session.Id,
		Title:         session.Title,
		Sent: &dto.ChatMessageDTO{
			Id:        userMessage.Id,
			Content:   userMessage.Content,
			Sender:    userMessage.Sender,
			Timestamp: userMessage.Timestamp,
		},
		Reply: &dto.ChatMessageDTO{
			Id:        assistantMessage.Id,
			Content:   assistantMessage.Content,
			Sender:    assistantMessage.Sender,
			Timestamp: assistantMessage.Timestamp,
		},
	}, nil
}

func transcriptOf(session *entity.ChatSession) []inference.Turn {
	turns := make([]inference.Turn, 0, len(session.Messages))
	for _, msg := range session.Messages {
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
	return turns
}

func (cs *chatService) persistSession(ctx context.Context, session *entity.ChatSession) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	session.UpdatedAt = &now
	return uow.ChatSessionRepository().Update(ctx, session)
}

// SaveSession persists the session remotely. The first save creates the
// remote row under a server-issued id and the local session adopts it;
// later saves update in place. Anonymous users cannot save.
func (cs *chatService) SaveSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SaveSessionResponse, error) {
	if userId == uuid.Nil {
		return nil, serverutils.ErrUnauthenticated
	}

	ws := cs.workspaces.Get(userId)
	session, ok := ws.Sessions.Get(sessionId)
	if !ok {
		return nil, serverutils.NewValidationError("session not found")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	owner := userId
	session.UserId = &owner
	now := time.Now()
	session.UpdatedAt = &now

	if !session.Saved {
		remote := *session
		remote.Id = uuid.New()
		if err := uow.ChatSessionRepository().Create(ctx, &remote); err != nil {
			return nil, err
		}
		ws.Sessions.Rekey(sessionId, remote.Id)
		session.Saved = true
		session.UpdatedAt = remote.UpdatedAt
	} else {
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	if cs.eventPublisher != nil {
		event := events.NewChatSessionSavedEvent(userId, session.Id, session.Title)
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.log.Warn("ChatService", "failed to publish CHAT_SESSION_SAVED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.SaveSessionResponse{Id: session.Id, Title: session.Title}, nil
}

// ClearSession resets the conversation back to the greeting.
func (cs *chatService) ClearSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	ws := cs.workspaces.Get(userId)
	session, ok := ws.Sessions.Get(sessionId)
	if !ok {
		return serverutils.NewValidationError("session not found")
	}

	session.Messages = []entity.ChatMessage{newGreeting()}
	session.Title = constant.ChatDefaultSessionTitle

	if session.Saved && userId != uuid.Nil {
		if err := cs.persistSession(ctx, session); err != nil {
			cs.log.Warn("ChatService", "failed to sync cleared session", map[string]interface{}{"session_id": session.Id, "error": err.Error()})
		}
	}
	return nil
}

// DeleteSession removes the session from the workspace and, when it was
// saved, from the database.
func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	ws := cs.workspaces.Get(userId)
	session, ok := ws.Sessions.Get(sessionId)
	if !ok {
		return serverutils.NewValidationError("session not found")
	}

	if session.Saved && userId != uuid.Nil {
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
			return err
		}
	}

	ws.Sessions.Remove(sessionId)

	if ws.Sessions.Len() == 0 {
		fresh := newLocalSession(userId)
		ws.Sessions.Upsert(fresh)
		ws.Sessions.SetActive(fresh.Id)
	}
	return nil
}

// GetAllSessions lists the user's saved sessions from the database.
func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionSummaryResponse, error) {
	if userId == uuid.Nil {
		return nil, serverutils.ErrUnauthenticated
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.SessionSummaryResponse{
			Id:           s.Id,
			Title:        s.Title,
			MessageCount: len(s.Messages),
			Saved:        true,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return response, nil
}

// GetChatHistory returns the messages of a session, preferring the live
// workspace copy over the persisted one.
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageDTO, error) {
	ws := cs.workspaces.Get(userId)

	session, ok := ws.Sessions.Get(sessionId)
	if !ok {
		if userId == uuid.Nil {
			return nil, serverutils.NewValidationError("session not found")
		}
		uow := cs.uowFactory.NewUnitOfWork(ctx)
		saved, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: sessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if saved == nil {
			return nil, serverutils.NewValidationError("session not found")
		}
		session = saved
	}

	history := make([]*dto.ChatMessageDTO, 0, len(session.Messages))
	for _, msg := range session.Messages {
		history = append(history, &dto.ChatMessageDTO{
			Id:        msg.Id,
			Content:   msg.Content,
			Sender:    msg.Sender,
			Timestamp: msg.Timestamp,
		})
	}
	return history, nil
}

// Transcribe converts a voice recording into text for the chat input.
func (cs *chatService) Transcribe(ctx context.Context, filename string, audio io.Reader) (*dto.TranscribeResponse, error) {
	transcript, err := cs.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		return nil, err
	}
	return &dto.TranscribeResponse{Transcript: transcript}, nil
}
