package controller

import (
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/pkg/serverutils"
	"academic-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	LoadWorkspace(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	SelectSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	SaveSession(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

// Chat routes serve both guests and signed-in users; saving is the only
// operation that demands authentication, enforced by the service.
func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Get("workspace", c.LoadWorkspace)
	h.Get("sessions", c.GetAllSessions)
	h.Post("session", c.CreateSession)
	h.Put("session/:id/select", c.SelectSession)
	h.Put("session/:id/clear", c.ClearSession)
	h.Post("session/:id/save", c.SaveSession)
	h.Get("session/:id/history", c.GetChatHistory)
	h.Delete("session/:id", c.DeleteSession)
	h.Post("send", c.SendChat)
	h.Post("transcribe", c.Transcribe)
}

func (c *chatController) LoadWorkspace(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	res, err := c.chatService.Load(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load workspace", res))
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	res, err := c.chatService.CreateSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) SelectSession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.chatService.SelectSession(ctx.Context(), userId, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success select session", nil))
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	// A blank message is silently ignored.
	if res == nil {
		return ctx.JSON(serverutils.SuccessResponse[any]("Message ignored", nil))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) SaveSession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.chatService.SaveSession(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save session", res))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.chatService.ClearSession(ctx.Context(), userId, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear session", nil))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.chatService.DeleteSession(ctx.Context(), userId, sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	res, err := c.chatService.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	sessionId, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.chatService.GetChatHistory(ctx.Context(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) Transcribe(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return serverutils.NewValidationError("audio file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := c.chatService.Transcribe(ctx.Context(), fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success transcribe audio", res))
}
