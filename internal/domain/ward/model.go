package ward

import (
	"github.com/google/uuid"

	"github.com/ehr/renalward/internal/domain/admission"
	"github.com/ehr/renalward/internal/domain/patient"
)

// RegisterRequest is a new patient together with their first admission.
// Dates are "YYYY-MM-DD"; AdmissionTime takes "HH:MM", "HH:MM:SS" or a full
// local timestamp.
type RegisterRequest struct {
	PHN           string  `json:"phn"`
	Name          string  `json:"name"`
	DOB           string  `json:"dob"`
	Sex           *string `json:"sex"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	NIC           *string `json:"nic"`
	MOHArea       *string `json:"moh_area"`
	EthnicGroup   *string `json:"ethnic_group"`
	Religion      *string `json:"religion"`
	Occupation    *string `json:"occupation"`
	MaritalStatus *string `json:"marital_status"`

	Ward          *string `json:"ward"`
	WardNumber    *string `json:"ward_number"`
	BedID         *string `json:"bed_id"`
	AdmissionDate string  `json:"admission_date"`
	AdmissionTime string  `json:"admission_time"`
	AdmissionType *string `json:"admission_type"`

	ConsultantName       *string `json:"consultant_name"`
	ReferredBy           *string `json:"referred_by"`
	PrimaryDiagnosis     *string `json:"primary_diagnosis"`
	AdmittingOfficer     *string `json:"admitting_officer"`
	PresentingComplaints *string `json:"presenting_complaints"`

	TempC         *float64 `json:"temp_c"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	BMI           *float64 `json:"bmi"`
	BloodPressure *string  `json:"blood_pressure"`
	HeartRate     *int     `json:"heart_rate"`

	MedicalProblems []string `json:"medical_problems"`
	Allergies       []string `json:"allergy_problems"`
}

func (r RegisterRequest) intake() admission.Intake {
	return admission.Intake{
		AdmissionDate:        r.AdmissionDate,
		AdmissionTime:        r.AdmissionTime,
		Ward:                 r.Ward,
		WardNumber:           r.WardNumber,
		BedID:                r.BedID,
		ConsultantName:       r.ConsultantName,
		ReferredBy:           r.ReferredBy,
		PrimaryDiagnosis:     r.PrimaryDiagnosis,
		AdmissionType:        r.AdmissionType,
		AdmittingOfficer:     r.AdmittingOfficer,
		PresentingComplaints: r.PresentingComplaints,
		TempC:                r.TempC,
		HeightCm:             r.HeightCm,
		WeightKg:             r.WeightKg,
		BMI:                  r.BMI,
		BloodPressure:        r.BloodPressure,
		HeartRate:            r.HeartRate,
	}
}

// PatientView is a patient merged with their active admission, if any.
type PatientView struct {
	ID            uuid.UUID      `json:"id"`
	PHN           string         `json:"phn"`
	Name          string         `json:"name"`
	DOB           *string        `json:"dob"`
	Sex           *string        `json:"sex"`
	Status        patient.Status `json:"status"`
	Address       *string        `json:"address"`
	Phone         *string        `json:"phone"`
	NIC           *string        `json:"nic"`
	MOHArea       *string        `json:"moh_area"`
	EthnicGroup   *string        `json:"ethnic_group"`
	Religion      *string        `json:"religion"`
	Occupation    *string        `json:"occupation"`
	MaritalStatus *string        `json:"marital_status"`

	MedicalProblems []string `json:"medical_problems,omitempty"`
	Allergies       []string `json:"allergies,omitempty"`

	HasActiveAdmission bool           `json:"has_active_admission"`
	ActiveAdmissionID  *uuid.UUID     `json:"active_admission_id"`
	ActiveAdmission    *AdmissionView `json:"active_admission"`
}

// AdmissionView renders AdmittedOn as "YYYY-MM-DD" and AdmissionTime as "HH:MM".
type AdmissionView struct {
	ID                        uuid.UUID `json:"id"`
	BHTNumber                 string    `json:"bht_number"`
	Number                    int       `json:"number"`
	Active                    bool      `json:"active"`
	DischargeSummaryAvailable bool      `json:"discharge_summary_available"`
	AdmittedOn                string    `json:"admitted_on"`
	AdmissionTime             string    `json:"admission_time"`

	Ward       *string `json:"ward"`
	WardNumber *string `json:"ward_number"`
	BedID      *string `json:"bed_id"`

	ConsultantName       *string `json:"consultant_name"`
	ReferredBy           *string `json:"referred_by"`
	PrimaryDiagnosis     *string `json:"primary_diagnosis"`
	AdmissionType        *string `json:"admission_type"`
	AdmittingOfficer     *string `json:"admitting_officer"`
	PresentingComplaints *string `json:"presenting_complaints"`

	ExamTempC         *float64 `json:"exam_temp_c"`
	ExamHeightCm      *float64 `json:"exam_height_cm"`
	ExamWeightKg      *float64 `json:"exam_weight_kg"`
	ExamBMI           *float64 `json:"exam_bmi"`
	ExamBloodPressure *string  `json:"exam_blood_pressure"`
	ExamHeartRate     *int     `json:"exam_heart_rate"`
}

// DebugView is the raw patient record next to the assembled admission block.
type DebugView struct {
	Patient           *patient.Patient `json:"patient"`
	ActiveAdmission   *AdmissionView   `json:"active_admission"`
	ActiveAdmissionID *uuid.UUID       `json:"active_admission_id"`
}
