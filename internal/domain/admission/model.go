package admission

import (
	"time"

	"github.com/google/uuid"
)

// Admission maps to the admission table. AdmittedOn carries only a date;
// AdmissionTime is the wall-clock instant of admission.
type Admission struct {
	ID                        uuid.UUID `db:"id" json:"id"`
	PatientID                 uuid.UUID `db:"patient_id" json:"patient_id"`
	BHTNumber                 string    `db:"bht_number" json:"bht_number"`
	Number                    int       `db:"number" json:"number"`
	Active                    bool      `db:"active" json:"active"`
	DischargeSummaryAvailable bool      `db:"discharge_summary_available" json:"discharge_summary_available"`
	AdmittedOn                time.Time `db:"admitted_on" json:"admitted_on"`
	AdmissionTime             time.Time `db:"admission_time" json:"admission_time"`

	Ward       *string `db:"ward" json:"ward,omitempty"`
	WardNumber *string `db:"ward_number" json:"ward_number,omitempty"`
	BedID      *string `db:"bed_id" json:"bed_id,omitempty"`

	ConsultantName       *string `db:"consultant_name" json:"consultant_name,omitempty"`
	ReferredBy           *string `db:"referred_by" json:"referred_by,omitempty"`
	PrimaryDiagnosis     *string `db:"primary_diagnosis" json:"primary_diagnosis,omitempty"`
	AdmissionType        *string `db:"admission_type" json:"admission_type,omitempty"`
	AdmittingOfficer     *string `db:"admitting_officer" json:"admitting_officer,omitempty"`
	PresentingComplaints *string `db:"presenting_complaints" json:"presenting_complaints,omitempty"`

	ExamTempC         *float64 `db:"exam_temp_c" json:"exam_temp_c,omitempty"`
	ExamHeightCm      *float64 `db:"exam_height_cm" json:"exam_height_cm,omitempty"`
	ExamWeightKg      *float64 `db:"exam_weight_kg" json:"exam_weight_kg,omitempty"`
	ExamBMI           *float64 `db:"exam_bmi" json:"exam_bmi,omitempty"`
	ExamBloodPressure *string  `db:"exam_blood_pressure" json:"exam_blood_pressure,omitempty"`
	ExamHeartRate     *int     `db:"exam_heart_rate" json:"exam_heart_rate,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Intake holds the admission half of a registration request.
// AdmissionDate is "YYYY-MM-DD"; AdmissionTime accepts "HH:MM", "HH:MM:SS"
// or a full "YYYY-MM-DDTHH:MM:SS" timestamp.
type Intake struct {
	AdmissionDate string
	AdmissionTime string

	Ward       *string
	WardNumber *string
	BedID      *string

	ConsultantName       *string
	ReferredBy           *string
	PrimaryDiagnosis     *string
	AdmissionType        *string
	AdmittingOfficer     *string
	PresentingComplaints *string

	TempC         *float64
	HeightCm      *float64
	WeightKg      *float64
	BMI           *float64
	BloodPressure *string
	HeartRate     *int
}

// Ownership is the outcome of checking an admission id against a patient.
type Ownership int

const (
	Owned Ownership = iota
	NotOwned
	NotFound
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case NotOwned:
		return "not_owned"
	default:
		return "not_found"
	}
}
