// Package lifecycle implements the request state machine:
// PENDING -> ACCEPTED -> COMPLETED, with PENDING -> REJECTED as the alternate
// terminal. Every operation re-validates its guards regardless of what the
// caller already checked, and works on values so a failed transition leaves
// no partial mutation behind.
package lifecycle

import (
	"time"
	. "xrayserver/internal/models"

	"github.com/google/uuid"
)

// Machine applies lifecycle transitions. The clock and id source are
// injectable for tests.
type Machine struct {
	now   func() time.Time
	newID func() string
}

func New() *Machine {
	return &Machine{
		now: time.Now,
		newID: func() string {
			id, _ := uuid.NewV7()
			return id.String()
		},
	}
}

func NewWithClock(now func() time.Time, newID func() string) *Machine {
	return &Machine{now: now, newID: newID}
}

func (m *Machine) nowMillis() int64 {
	return m.now().UnixMilli()
}

// Draft carries the doctor-entered content fields of a request.
type Draft struct {
	PatientName string           `json:"patientName"`
	ICNumber    string           `json:"icNumber"`
	UitmID      string           `json:"uitmId"`
	Gender      string           `json:"gender"`
	LMPDate     string           `json:"lmpDate"`
	History     string           `json:"history"`
	Parts       []BodyPartOption `json:"parts"`
}

func validateDraft(draft Draft) error {
	if draft.PatientName == "" {
		return NewValidationError("patientName", "required")
	}
	if draft.ICNumber == "" {
		return NewValidationError("icNumber", "required")
	}
	if draft.Gender != GenderMale && draft.Gender != GenderFemale {
		return NewValidationError("gender", "must be Male or Female")
	}
	if draft.Gender == GenderFemale && draft.LMPDate == "" {
		return NewValidationError("lmpDate", "required for female patients")
	}
	if len(draft.Parts) == 0 {
		return NewValidationError("parts", "at least one part is required")
	}
	return nil
}

func applyDraft(request *XRayRequest, draft Draft) {
	request.PatientName = draft.PatientName
	request.ICNumber = draft.ICNumber
	request.UitmID = draft.UitmID
	request.Gender = draft.Gender
	request.History = draft.History
	request.Parts = draft.Parts

	request.LMPDate = ""
	if draft.Gender == GenderFemale {
		request.LMPDate = draft.LMPDate
	}
}

// Submit creates a PENDING request owned by the submitting doctor.
func (m *Machine) Submit(actor User, draft Draft) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionSubmit) {
		return XRayRequest{}, NewGuardViolation(StatusPending, "Submit", "actor is not a doctor")
	}
	if err := validateDraft(draft); err != nil {
		return XRayRequest{}, err
	}

	request := XRayRequest{
		ID:         m.newID(),
		DoctorID:   actor.Username,
		DoctorName: actor.FullName,
		Status:     StatusPending,
		CreatedAt:  m.nowMillis(),
	}
	applyDraft(&request, draft)

	return request, nil
}

// Edit replaces the content fields of a PENDING request. Only the submitting
// doctor may edit, and id/createdAt are preserved.
func (m *Machine) Edit(actor User, existing XRayRequest, draft Draft) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionEdit) {
		return XRayRequest{}, NewGuardViolation(existing.Status, "Edit", "actor is not a doctor")
	}
	if existing.Status != StatusPending {
		return XRayRequest{}, NewGuardViolation(existing.Status, "Edit", "only pending requests may be edited")
	}
	if existing.DoctorID != actor.Username {
		return XRayRequest{}, NewGuardViolation(existing.Status, "Edit", "not the submitting doctor")
	}
	if err := validateDraft(draft); err != nil {
		return XRayRequest{}, err
	}

	applyDraft(&existing, draft)
	return existing, nil
}

// Accept moves a PENDING request to ACCEPTED and records the radiographer.
func (m *Machine) Accept(actor User, request XRayRequest) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionAccept) {
		return XRayRequest{}, NewGuardViolation(request.Status, "Accept", "actor is not a radiographer")
	}
	if request.Status != StatusPending {
		return XRayRequest{}, NewGuardViolation(request.Status, "Accept", "only pending requests may be accepted")
	}

	request.Status = StatusAccepted
	request.RadiographerID = actor.Username
	request.RadiographerName = actor.FullName
	return request, nil
}

// Reject is the alternate terminal from PENDING; a reason is required.
func (m *Machine) Reject(actor User, request XRayRequest, reason string) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionReject) {
		return XRayRequest{}, NewGuardViolation(request.Status, "Reject", "actor is not a radiographer")
	}
	if request.Status != StatusPending {
		return XRayRequest{}, NewGuardViolation(request.Status, "Reject", "only pending requests may be rejected")
	}
	if reason == "" {
		return XRayRequest{}, NewValidationError("rejectedReason", "required")
	}

	request.Status = StatusRejected
	request.RadiographerID = actor.Username
	request.RadiographerName = actor.FullName
	request.RejectedReason = reason
	return request, nil
}

// MarkArrived records patient arrival. Status stays ACCEPTED; the three
// timestamps form an ordered checklist within that state, not sub-states.
func (m *Machine) MarkArrived(actor User, request XRayRequest) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionMarkArrived) {
		return XRayRequest{}, NewGuardViolation(request.Status, "MarkArrived", "actor is not a radiographer")
	}
	if request.Status != StatusAccepted {
		return XRayRequest{}, NewGuardViolation(request.Status, "MarkArrived", "request is not accepted")
	}
	if request.ArrivalTimestamp != nil {
		return XRayRequest{}, NewGuardViolation(request.Status, "MarkArrived", "arrival already recorded")
	}

	now := m.nowMillis()
	request.ArrivalTimestamp = &now
	return request, nil
}

// StartExam records exam start; requires arrival first.
func (m *Machine) StartExam(actor User, request XRayRequest) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionStartExam) {
		return XRayRequest{}, NewGuardViolation(request.Status, "StartExam", "actor is not a radiographer")
	}
	if request.Status != StatusAccepted {
		return XRayRequest{}, NewGuardViolation(request.Status, "StartExam", "request is not accepted")
	}
	if request.ArrivalTimestamp == nil {
		return XRayRequest{}, NewGuardViolation(request.Status, "StartExam", "arrival not recorded")
	}
	if request.ExamStartTimestamp != nil {
		return XRayRequest{}, NewGuardViolation(request.Status, "StartExam", "exam already started")
	}

	now := m.nowMillis()
	if now < *request.ArrivalTimestamp {
		now = *request.ArrivalTimestamp
	}
	request.ExamStartTimestamp = &now
	return request, nil
}

// Finish completes the request. A dose value is required for every part in
// the original request; doses are stored in the parts' order.
func (m *Machine) Finish(actor User, request XRayRequest, doses map[string]string) (XRayRequest, error) {
	if !CanPerform(actor.Role, ActionFinish) {
		return XRayRequest{}, NewGuardViolation(request.Status, "Finish", "actor is not a radiographer")
	}
	if request.Status != StatusAccepted {
		return XRayRequest{}, NewGuardViolation(request.Status, "Finish", "request is not accepted")
	}
	if request.ExamStartTimestamp == nil {
		return XRayRequest{}, NewGuardViolation(request.Status, "Finish", "exam not started")
	}

	records := make([]DoseRecord, 0, len(request.Parts))
	for _, part := range request.Parts {
		amount := doses[part.ID]
		if amount == "" {
			return XRayRequest{}, NewValidationError("doses", "missing dose for part "+part.ID)
		}
		records = append(records, DoseRecord{PartID: part.ID, DoseAmount: amount})
	}

	now := m.nowMillis()
	if now < *request.ExamStartTimestamp {
		now = *request.ExamStartTimestamp
	}

	request.Status = StatusCompleted
	request.ExamEndTimestamp = &now
	request.Doses = records
	return request, nil
}
