package handlers

import (
	"xrayserver/internal/app"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"
	"xrayserver/internal/services/advice"

	"github.com/gofiber/fiber/v2"
)

type AdviceHandler struct {
	Handler
	service *advice.Service
}

func NewAdviceHandler(app app.App, router fiber.Router) *AdviceHandler {
	log := logger.New("handlers").File("advice_handler")
	return &AdviceHandler{
		service: app.AdviceService,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdviceHandler) Register() {
	adviceGroup := h.router.Group(
		"/advice",
		h.middleware.RequireAuth(),
		h.middleware.RequireRole(RoleDoctor),
	)
	adviceGroup.Post("/", h.getAdvice)
}

type adviceRequest struct {
	History  string           `json:"history"`
	Parts    []BodyPartOption `json:"parts"`
	Language Language         `json:"language"`
}

func (h *AdviceHandler) getAdvice(c *fiber.Ctx) error {
	log := h.log.Function("getAdvice")

	var body adviceRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse advice request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	text := h.service.GetClinicalAdvice(c.Context(), body.History, body.Parts, body.Language)
	return c.JSON(fiber.Map{"message": "success", "advice": text})
}
