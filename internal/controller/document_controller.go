package controller

import (
	"academic-ai-be/internal/dto"
	"academic-ai-be/internal/pkg/logger"
	"academic-ai-be/internal/pkg/serverutils"
	"academic-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	logger          logger.ILogger
}

func NewDocumentController(documentService service.IDocumentService, log logger.ILogger) IDocumentController {
	return &documentController{
		documentService: documentService,
		logger:          log,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.OptionalJwtMiddleware)
	h.Post("upload", c.Upload)
	h.Get("", c.GetAll)
	h.Post("analyze", c.Analyze)
	h.Post("ask", c.Ask)
	h.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewValidationError("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	upload := &service.DocumentUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  file,
		OnProgress: func(read, total int64) {
			c.logger.Debug("DocumentController", "upload progress", map[string]interface{}{
				"file":  fileHeader.Filename,
				"read":  read,
				"total": total,
			})
		},
	}

	res, err := c.documentService.Upload(ctx.Context(), userId, upload)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	res, err := c.documentService.GetAllDocuments(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *documentController) Analyze(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	var req dto.AnalyzeDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Analyze(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze document", res))
}

func (c *documentController) Ask(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)

	var req dto.AskDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Ask(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask document", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userId := serverutils.UserIDFromLocals(ctx)
	documentId, _ := uuid.Parse(ctx.Params("id"))

	if err := c.documentService.DeleteDocument(ctx.Context(), userId, documentId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}
