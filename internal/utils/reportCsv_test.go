package utils

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	. "xrayserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReportCSV_Empty(t *testing.T) {
	data, err := RenderReportCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "empty month yields the header row only")
	assert.Equal(t, ReportHeaders, records[0])
}

func TestRenderReportCSV_Rows(t *testing.T) {
	end := time.Date(2025, time.March, 12, 11, 30, 0, 0, time.Local).UnixMilli()
	start := end - 15*60*1000

	requests := []XRayRequest{
		{
			ID:          "req-001",
			PatientName: `Ali "Junior", bin Abu`,
			ICNumber:    "900101-10-1111",
			UitmID:      "2021123456",
			Gender:      GenderMale,
			History:     "cough, 2 weeks",
			Status:      StatusCompleted,
			CreatedAt:   start,
			Parts: []BodyPartOption{
				{ID: "1", Category: "Chest", Projection: "PA"},
				{ID: "2", Category: "Chest", Projection: "Lateral"},
			},
			ExamStartTimestamp: &start,
			ExamEndTimestamp:   &end,
			DoctorName:         "Dr. Azlan Hashim",
			RadiographerName:   "Faiz Rahman",
			Doses: []DoseRecord{
				{PartID: "1", DoseAmount: "2.5 mGy"},
				{PartID: "2", DoseAmount: "1.8 mGy"},
			},
		},
		{
			ID:          "req-002",
			PatientName: "Siti",
			ICNumber:    "950505-05-5555",
			Gender:      GenderFemale,
			LMPDate:     "2025-02-20",
			Status:      StatusPending,
			CreatedAt:   start,
			Parts:       []BodyPartOption{{ID: "1", Category: "Chest", Projection: "PA"}},
			DoctorName:  "Dr. Azlan Hashim",
		},
	}

	data, err := RenderReportCSV(requests)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err, "embedded quotes and commas must survive a round trip")
	require.Len(t, records, 3)

	completed := records[1]
	assert.Equal(t, `Ali "Junior", bin Abu`, completed[0])
	assert.Equal(t, "N/A", completed[4], "male patient has no LMP")
	assert.Equal(t, "Chest-PA, Chest-Lateral", completed[6])
	assert.Equal(t, "COMPLETED", completed[7])
	assert.Equal(t, "2.5 mGy, 1.8 mGy", completed[13])
	assert.NotEmpty(t, completed[10], "exam end rendered for completed request")

	pending := records[2]
	assert.Equal(t, "2025-02-20", pending[4])
	assert.Empty(t, pending[9], "no exam start on a pending request")
	assert.Empty(t, pending[10])
	assert.Empty(t, pending[12])
	assert.Empty(t, pending[13])
}

func TestInMonth(t *testing.T) {
	createdFeb := time.Date(2025, time.February, 28, 10, 0, 0, 0, time.Local).UnixMilli()
	endedMarch := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.Local).UnixMilli()

	pending := XRayRequest{Status: StatusPending, CreatedAt: createdFeb}
	completed := XRayRequest{
		Status:           StatusCompleted,
		CreatedAt:        createdFeb,
		ExamEndTimestamp: &endedMarch,
	}

	assert.True(t, InMonth(pending, time.February, 2025))
	assert.False(t, InMonth(pending, time.March, 2025))

	// A completed request is reported under its completion month
	assert.True(t, InMonth(completed, time.March, 2025))
	assert.False(t, InMonth(completed, time.February, 2025))
	assert.False(t, InMonth(completed, time.March, 2024))
}
