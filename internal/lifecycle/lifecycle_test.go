package lifecycle

import (
	"fmt"
	"testing"
	"time"

	. "xrayserver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	doctor       = User{Username: "dr.azlan@uitm.edu.my", Role: RoleDoctor, FullName: "Dr. Azlan Hashim"}
	radiographer = User{Username: "faiz.xray@uitm.edu.my", Role: RoleRadiographer, FullName: "Faiz Rahman"}
	admin        = User{Username: "nuraiman@uitm.edu.my", Role: RoleAdmin, FullName: "Nur Aiman (Admin)"}
)

// testMachine returns a machine with a deterministic clock that advances one
// second per call, and sequential ids.
func testMachine() *Machine {
	current := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	seq := 0
	return NewWithClock(
		func() time.Time {
			current = current.Add(time.Second)
			return current
		},
		func() string {
			seq++
			return fmt.Sprintf("req-%03d", seq)
		},
	)
}

func validDraft() Draft {
	return Draft{
		PatientName: "Ali",
		ICNumber:    "900101-10-1111",
		Gender:      GenderMale,
		History:     "cough",
		Parts:       []BodyPartOption{{ID: "1", Category: "Chest", Projection: "PA"}},
	}
}

func TestSubmit(t *testing.T) {
	machine := testMachine()

	request, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, request.Status)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, doctor.Username, request.DoctorID)
	assert.Equal(t, "Dr. Azlan Hashim", request.DoctorName)
	assert.Len(t, request.Parts, 1)
	assert.NotZero(t, request.CreatedAt)
	assert.Nil(t, request.ArrivalTimestamp)
	assert.Empty(t, request.Doses)
}

func TestSubmit_UniqueIDs(t *testing.T) {
	machine := New()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		request, err := machine.Submit(doctor, validDraft())
		require.NoError(t, err)
		assert.False(t, seen[request.ID], "duplicate id %s", request.ID)
		seen[request.ID] = true
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Draft)
		field  string
	}{
		{
			name:   "missing patient name",
			modify: func(d *Draft) { d.PatientName = "" },
			field:  "patientName",
		},
		{
			name:   "missing IC number",
			modify: func(d *Draft) { d.ICNumber = "" },
			field:  "icNumber",
		},
		{
			name:   "no parts selected",
			modify: func(d *Draft) { d.Parts = nil },
			field:  "parts",
		},
		{
			name:   "unknown gender",
			modify: func(d *Draft) { d.Gender = "Other" },
			field:  "gender",
		},
		{
			name: "female without LMP date",
			modify: func(d *Draft) {
				d.Gender = GenderFemale
				d.LMPDate = ""
			},
			field: "lmpDate",
		},
	}

	machine := testMachine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.modify(&draft)

			_, err := machine.Submit(doctor, draft)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSubmit_WrongRole(t *testing.T) {
	machine := testMachine()

	for _, actor := range []User{radiographer, admin} {
		_, err := machine.Submit(actor, validDraft())
		assert.True(t, IsGuardViolation(err), "role %s should not submit", actor.Role)
	}
}

func TestSubmit_FemaleKeepsLMP(t *testing.T) {
	machine := testMachine()

	draft := validDraft()
	draft.Gender = GenderFemale
	draft.LMPDate = "2025-02-20"

	request, err := machine.Submit(doctor, draft)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-20", request.LMPDate)

	// Male drafts never carry an LMP date even if one was entered
	draft = validDraft()
	draft.LMPDate = "2025-02-20"
	request, err = machine.Submit(doctor, draft)
	require.NoError(t, err)
	assert.Empty(t, request.LMPDate)
}

func TestEdit(t *testing.T) {
	machine := testMachine()

	request, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	draft := validDraft()
	draft.PatientName = "Ali bin Abu"
	draft.History = "persistent cough, 2 weeks"

	updated, err := machine.Edit(doctor, request, draft)
	require.NoError(t, err)

	assert.Equal(t, request.ID, updated.ID, "id preserved")
	assert.Equal(t, request.CreatedAt, updated.CreatedAt, "createdAt preserved")
	assert.Equal(t, StatusPending, updated.Status)
	assert.Equal(t, "Ali bin Abu", updated.PatientName)
	assert.Equal(t, "persistent cough, 2 weeks", updated.History)
}

func TestEdit_Guards(t *testing.T) {
	machine := testMachine()
	otherDoctor := User{Username: "dr.siti@uitm.edu.my", Role: RoleDoctor, FullName: "Dr. Siti Rahmah"}

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)

	rejected, err := machine.Reject(radiographer, pending, "duplicate order")
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   User
		request XRayRequest
	}{
		{name: "edit accepted request", actor: doctor, request: accepted},
		{name: "edit rejected request", actor: doctor, request: rejected},
		{name: "edit by another doctor", actor: otherDoctor, request: pending},
		{name: "edit by radiographer", actor: radiographer, request: pending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.request
			_, err := machine.Edit(tt.actor, tt.request, validDraft())
			require.Error(t, err)
			assert.True(t, IsGuardViolation(err))
			assert.Equal(t, before, tt.request, "failed edit must not mutate the record")
		})
	}
}

func TestAcceptReject_MutuallyExclusive(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	assert.Equal(t, radiographer.Username, accepted.RadiographerID)
	assert.Equal(t, "Faiz Rahman", accepted.RadiographerName)

	// Second accept and reject-after-accept both fail
	_, err = machine.Accept(radiographer, accepted)
	assert.True(t, IsGuardViolation(err))
	_, err = machine.Reject(radiographer, accepted, "too late")
	assert.True(t, IsGuardViolation(err))

	rejected, err := machine.Reject(radiographer, pending, "duplicate order")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, "duplicate order", rejected.RejectedReason)
	assert.True(t, rejected.Status.Terminal())

	_, err = machine.Reject(radiographer, rejected, "again")
	assert.True(t, IsGuardViolation(err))
	_, err = machine.Accept(radiographer, rejected)
	assert.True(t, IsGuardViolation(err))
}

func TestReject_RequiresReason(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	_, err = machine.Reject(radiographer, pending, "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestFinish_RequiresExamStart(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)
	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)

	_, err = machine.Finish(radiographer, accepted, map[string]string{"1": "2.5 mGy"})
	require.Error(t, err)
	assert.True(t, IsGuardViolation(err), "finish without arrival/start must fail")
	assert.Equal(t, StatusAccepted, accepted.Status)
}

func TestFinish_RequiresDosePerPart(t *testing.T) {
	machine := testMachine()

	draft := validDraft()
	draft.Parts = []BodyPartOption{
		{ID: "1", Category: "Chest", Projection: "PA"},
		{ID: "2", Category: "Chest", Projection: "Lateral"},
	}

	pending, err := machine.Submit(doctor, draft)
	require.NoError(t, err)
	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)
	arrived, err := machine.MarkArrived(radiographer, accepted)
	require.NoError(t, err)
	started, err := machine.StartExam(radiographer, arrived)
	require.NoError(t, err)

	_, err = machine.Finish(radiographer, started, map[string]string{"1": "2.5 mGy"})
	require.Error(t, err)
	assert.True(t, IsValidation(err), "missing dose must be a validation error")
	assert.Equal(t, StatusAccepted, started.Status, "record unchanged on failure")

	finished, err := machine.Finish(radiographer, started, map[string]string{
		"1": "2.5 mGy",
		"2": "1.8 mGy",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, finished.Status)
	assert.Len(t, finished.Doses, 2)
}

func TestHappyPath_TimestampOrdering(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)

	arrived, err := machine.MarkArrived(radiographer, accepted)
	require.NoError(t, err)
	require.NotNil(t, arrived.ArrivalTimestamp)

	started, err := machine.StartExam(radiographer, arrived)
	require.NoError(t, err)
	require.NotNil(t, started.ExamStartTimestamp)

	finished, err := machine.Finish(radiographer, started, map[string]string{"1": "2.5 mGy"})
	require.NoError(t, err)
	require.NotNil(t, finished.ExamEndTimestamp)

	assert.Equal(t, StatusCompleted, finished.Status)
	assert.Len(t, finished.Doses, 1)
	assert.Equal(t, "2.5 mGy", finished.Doses[0].DoseAmount)

	assert.LessOrEqual(t, *finished.ArrivalTimestamp, *finished.ExamStartTimestamp)
	assert.LessOrEqual(t, *finished.ExamStartTimestamp, *finished.ExamEndTimestamp)
}

func TestTimestampChecklist_Guards(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)
	accepted, err := machine.Accept(radiographer, pending)
	require.NoError(t, err)

	// Start before arrival
	_, err = machine.StartExam(radiographer, accepted)
	assert.True(t, IsGuardViolation(err))

	arrived, err := machine.MarkArrived(radiographer, accepted)
	require.NoError(t, err)

	// Arrival twice
	_, err = machine.MarkArrived(radiographer, arrived)
	assert.True(t, IsGuardViolation(err))

	started, err := machine.StartExam(radiographer, arrived)
	require.NoError(t, err)

	// Start twice
	_, err = machine.StartExam(radiographer, started)
	assert.True(t, IsGuardViolation(err))
}

func TestTransitions_WrongRole(t *testing.T) {
	machine := testMachine()

	pending, err := machine.Submit(doctor, validDraft())
	require.NoError(t, err)

	for _, actor := range []User{doctor, admin} {
		_, err := machine.Accept(actor, pending)
		assert.True(t, IsGuardViolation(err), "role %s should not accept", actor.Role)

		_, err = machine.Reject(actor, pending, "reason")
		assert.True(t, IsGuardViolation(err), "role %s should not reject", actor.Role)
	}
}
