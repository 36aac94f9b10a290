package handlers

import (
	"xrayserver/internal/app"
	requestsController "xrayserver/internal/controllers/requests"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	Handler
	controller *requestsController.RequestController
}

func NewRequestHandler(app app.App, router fiber.Router) *RequestHandler {
	log := logger.New("handlers").File("request_handler")
	return &RequestHandler{
		controller: app.RequestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RequestHandler) Register() {
	requests := h.router.Group("/requests", h.middleware.RequireAuth())

	requests.Get("/", h.list)

	// Role gates go on each route, not a same-prefix sub-group: group
	// middleware on "/" would also run for every route registered after it.
	doctor := h.middleware.RequireRole(RoleDoctor)
	requests.Post("/", doctor, h.submit)
	requests.Put("/:id", doctor, h.edit)

	radiographer := h.middleware.RequireRole(RoleRadiographer)
	requests.Post("/:id/accept", radiographer, h.accept)
	requests.Post("/:id/reject", radiographer, h.reject)
	requests.Post("/:id/arrive", radiographer, h.markArrived)
	requests.Post("/:id/start", radiographer, h.startExam)
	requests.Post("/:id/finish", radiographer, h.finish)
}

// list is role-shaped: doctors see their own submissions, radiographers
// their work queue, admins everything.
func (h *RequestHandler) list(c *fiber.Ctx) error {
	user := currentUser(c)

	var (
		requests []XRayRequest
		err      error
	)
	switch user.Role {
	case RoleDoctor:
		requests, err = h.controller.ListForDoctor(c.Context(), user)
	case RoleRadiographer:
		requests, err = h.controller.WorkQueue(c.Context())
	case RoleAdmin:
		requests, err = h.controller.ListAll(c.Context())
	default:
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "error", "error": "unknown role"})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "requests": requests})
}

func (h *RequestHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var draft lifecycle.Draft
	if err := c.BodyParser(&draft); err != nil {
		log.Er("failed to parse draft", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	request, err := h.controller.Submit(c.Context(), currentUser(c), draft)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "request": request})
}

func (h *RequestHandler) edit(c *fiber.Ctx) error {
	log := h.log.Function("edit")

	var draft lifecycle.Draft
	if err := c.BodyParser(&draft); err != nil {
		log.Er("failed to parse draft", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	request, err := h.controller.Edit(c.Context(), currentUser(c), c.Params("id"), draft)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "success", "request": request})
}

func (h *RequestHandler) accept(c *fiber.Ctx) error {
	request, err := h.controller.Accept(c.Context(), currentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "request": request})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *RequestHandler) reject(c *fiber.Ctx) error {
	var body rejectRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	request, err := h.controller.Reject(c.Context(), currentUser(c), c.Params("id"), body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "request": request})
}

func (h *RequestHandler) markArrived(c *fiber.Ctx) error {
	request, err := h.controller.MarkArrived(c.Context(), currentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "request": request})
}

func (h *RequestHandler) startExam(c *fiber.Ctx) error {
	request, err := h.controller.StartExam(c.Context(), currentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "request": request})
}

type finishRequest struct {
	Doses map[string]string `json:"doses"`
}

func (h *RequestHandler) finish(c *fiber.Ctx) error {
	var body finishRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "failed to parse request"})
	}

	request, err := h.controller.Finish(c.Context(), currentUser(c), c.Params("id"), body.Doses)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "success", "request": request})
}
