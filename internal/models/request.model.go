package models

type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusAccepted  RequestStatus = "ACCEPTED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCompleted RequestStatus = "COMPLETED"
)

// Terminal reports whether no further transition is permitted.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// DoseRecord captures the radiation dose delivered for one requested part.
type DoseRecord struct {
	PartID     string `json:"partId"`
	DoseAmount string `json:"doseAmount"` // free text, e.g. "2.5 mGy"
}

// XRayRequest tracks one imaging order through its lifecycle. Timestamps are
// Unix milliseconds, matching the persisted document format.
type XRayRequest struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`

	PatientName string           `json:"patientName"`
	ICNumber    string           `json:"icNumber"`
	UitmID      string           `json:"uitmId,omitempty"`
	Gender      string           `json:"gender"`
	LMPDate     string           `json:"lmpDate,omitempty"`
	History     string           `json:"history"`
	Parts       []BodyPartOption `json:"parts"`

	Status    RequestStatus `json:"status"`
	CreatedAt int64         `json:"createdAt"`

	RadiographerID   string `json:"radiographerId,omitempty"`
	RadiographerName string `json:"radiographerName,omitempty"`
	RejectedReason   string `json:"rejectedReason,omitempty"`

	ArrivalTimestamp   *int64 `json:"arrivalTimestamp,omitempty"`
	ExamStartTimestamp *int64 `json:"examStartTimestamp,omitempty"`
	ExamEndTimestamp   *int64 `json:"examEndTimestamp,omitempty"`

	Doses []DoseRecord `json:"doses,omitempty"`
}

// EffectiveTimestamp is the moment a request counts toward a reporting
// period: completion time when finished, creation time otherwise.
func (r XRayRequest) EffectiveTimestamp() int64 {
	if r.ExamEndTimestamp != nil {
		return *r.ExamEndTimestamp
	}
	return r.CreatedAt
}
