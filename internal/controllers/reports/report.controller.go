package reportsController

import (
	"context"
	"fmt"
	"time"
	"xrayserver/internal/lifecycle"
	"xrayserver/internal/logger"
	"xrayserver/internal/repositories"
	"xrayserver/internal/utils"

	. "xrayserver/internal/models"
)

type ReportController struct {
	requestRepo repositories.RequestRepository
	log         logger.Logger
}

func New(requestRepo repositories.RequestRepository) *ReportController {
	return &ReportController{
		requestRepo: requestRepo,
		log:         logger.New("ReportController"),
	}
}

// MonthlyCSV renders the month's report. Records count toward the month of
// their completion, or of their creation when never completed. Read-only.
func (c *ReportController) MonthlyCSV(ctx context.Context, actor User, month, year int) (string, []byte, error) {
	log := c.log.Function("MonthlyCSV")

	if !lifecycle.CanPerform(actor.Role, lifecycle.ActionExportReports) {
		return "", nil, NewGuardViolation("", "MonthlyCSV", "actor is not an admin")
	}
	if month < 1 || month > 12 {
		return "", nil, NewValidationError("month", "must be 1-12")
	}
	if year < 1970 {
		return "", nil, NewValidationError("year", "out of range")
	}

	requests, err := c.requestRepo.GetAll(ctx)
	if err != nil {
		return "", nil, err
	}

	matched := make([]XRayRequest, 0)
	for _, request := range requests {
		if utils.InMonth(request, time.Month(month), year) {
			matched = append(matched, request)
		}
	}

	data, err := utils.RenderReportCSV(matched)
	if err != nil {
		return "", nil, log.Err("failed to render report", err, "month", month, "year", year)
	}

	filename := fmt.Sprintf("report_%d_%d.csv", year, month)
	log.Info("report generated", "filename", filename, "rows", len(matched))
	return filename, data, nil
}
