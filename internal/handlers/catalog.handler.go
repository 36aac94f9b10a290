package handlers

import (
	"xrayserver/internal/app"
	catalogController "xrayserver/internal/controllers/catalog"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Handler
	controller *catalogController.CatalogController
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		controller: app.CatalogController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CatalogHandler) Register() {
	parts := h.router.Group("/parts", h.middleware.RequireAuth())

	parts.Get("/", h.list)

	admin := h.middleware.RequireRole(RoleAdmin)
	parts.Post("/", admin, h.add)
	parts.Delete("/:id", admin, h.remove)
}

func (h *CatalogHandler) list(c *fiber.Ctx) error {
	parts, err := h.controller.ListParts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "parts": parts})
}

func (h *CatalogHandler) add(c *fiber.Ctx) error {
	log := h.log.Function("add")

	var part BodyPartOption
	if err := c.BodyParser(&part); err != nil {
		log.Er("failed to parse part", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse part"})
	}

	added, err := h.controller.AddPart(c.Context(), currentUser(c), part)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "part": added})
}

func (h *CatalogHandler) remove(c *fiber.Ctx) error {
	if err := h.controller.RemovePart(c.Context(), currentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success"})
}
