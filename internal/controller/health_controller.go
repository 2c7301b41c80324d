package controller

import (
	"ai-taskbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	provider string
	model    string
}

func NewHealthController(provider, model string) IHealthController {
	return &healthController{provider: provider, model: model}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
		"status":   "up",
		"provider": c.provider,
		"model":    c.model,
	}))
}
