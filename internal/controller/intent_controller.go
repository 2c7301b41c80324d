package controller

import (
	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/pkg/serverutils"
	"ai-taskbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IIntentController interface {
	RegisterRoutes(r fiber.Router)
	Parse(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
	LogByID(ctx *fiber.Ctx) error
}

type intentController struct {
	intentService service.IIntentService
	jwtMiddleware fiber.Handler
}

func NewIntentController(intentService service.IIntentService, jwtSecret string) IIntentController {
	return &intentController{
		intentService: intentService,
		jwtMiddleware: serverutils.NewJwtMiddleware(jwtSecret),
	}
}

func (c *intentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/intent/v1")
	h.Post("parse", c.Parse)
	h.Get("logs", c.jwtMiddleware, c.Logs)
	h.Get("logs/:id", c.jwtMiddleware, c.LogByID)
}

func (c *intentController) Parse(ctx *fiber.Ctx) error {
	var req dto.ParseIntentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.intentService.Parse(ctx.UserContext(), userID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success parse intent", res))
}

func (c *intentController) Logs(ctx *fiber.Ctx) error {
	var req dto.ListParseLogsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.intentService.RecentLogs(ctx.UserContext(), userID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list parse logs", res))
}

func (c *intentController) LogByID(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid parse log id")
	}

	res, err := c.intentService.LogByID(ctx.UserContext(), userID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get parse log", res))
}

// userID is empty for anonymous callers.
func userID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals("user_id").(string)
	return id
}
