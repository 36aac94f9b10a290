package handlers

import (
	"xrayserver/internal/app"
	reportsController "xrayserver/internal/controllers/reports"
	"xrayserver/internal/logger"
	. "xrayserver/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	controller *reportsController.ReportController
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	log := logger.New("handlers").File("report_handler")
	return &ReportHandler{
		controller: app.ReportController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	reports := h.router.Group(
		"/reports",
		h.middleware.RequireAuth(),
		h.middleware.RequireRole(RoleAdmin),
	)
	reports.Get("/csv", h.monthlyCSV)
}

func (h *ReportHandler) monthlyCSV(c *fiber.Ctx) error {
	month := c.QueryInt("month")
	year := c.QueryInt("year")

	filename, data, err := h.controller.MonthlyCSV(c.Context(), currentUser(c), month, year)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
