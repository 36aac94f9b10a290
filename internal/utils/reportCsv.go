package utils

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	. "xrayserver/internal/models"
)

// ReportHeaders is the fixed monthly-report column order. Field text is
// quote-escaped by encoding/csv.
var ReportHeaders = []string{
	"Patient Name", "IC", "UiTM ID", "Gender", "LMP", "History",
	"Parts", "Status", "Request Date", "Exam Start", "Exam End",
	"Doctor", "Radiographer", "Doses",
}

const reportTimeFormat = "2006-01-02 15:04:05"

// RenderReportCSV renders one row per request in the given order. An empty
// slice yields the header row only.
func RenderReportCSV(requests []XRayRequest) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(ReportHeaders); err != nil {
		return nil, err
	}

	for _, request := range requests {
		row := []string{
			request.PatientName,
			request.ICNumber,
			request.UitmID,
			request.Gender,
			lmpOrNA(request.LMPDate),
			request.History,
			joinParts(request.Parts),
			string(request.Status),
			formatMillis(&request.CreatedAt),
			formatMillis(request.ExamStartTimestamp),
			formatMillis(request.ExamEndTimestamp),
			request.DoctorName,
			request.RadiographerName,
			joinDoses(request.Doses),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// InMonth reports whether the request's effective timestamp (completion when
// finished, creation otherwise) falls in the given month and year, local time.
func InMonth(request XRayRequest, month time.Month, year int) bool {
	t := time.UnixMilli(request.EffectiveTimestamp()).Local()
	return t.Month() == month && t.Year() == year
}

func lmpOrNA(lmp string) string {
	if lmp == "" {
		return "N/A"
	}
	return lmp
}

func joinParts(parts []BodyPartOption) string {
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		labels = append(labels, part.Category+"-"+part.Projection)
	}
	return strings.Join(labels, ", ")
}

func joinDoses(doses []DoseRecord) string {
	amounts := make([]string, 0, len(doses))
	for _, dose := range doses {
		amounts = append(amounts, dose.DoseAmount)
	}
	return strings.Join(amounts, ", ")
}

func formatMillis(ms *int64) string {
	if ms == nil {
		return ""
	}
	return time.UnixMilli(*ms).Local().Format(reportTimeFormat)
}
