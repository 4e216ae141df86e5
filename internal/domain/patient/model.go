package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the patient's ward state. Register sets Admitted, discharge sets
// Discharged; no other values are stored.
type Status string

const (
	StatusAdmitted   Status = "Admitted"
	StatusDischarged Status = "Discharged"
)

// ParseStatus accepts the two ward states, case-sensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAdmitted, StatusDischarged:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q: must be %s or %s", s, StatusAdmitted, StatusDischarged)
}

// StatusFor is the only status consistent with the patient's admissions.
func StatusFor(hasActiveAdmission bool) Status {
	if hasActiveAdmission {
		return StatusAdmitted
	}
	return StatusDischarged
}

// Patient maps to the patient table. PHN is always stored in canonical
// digits-only form.
type Patient struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PHN           string     `db:"phn" json:"phn"`
	Name          string     `db:"name" json:"name"`
	DOB           *time.Time `db:"dob" json:"dob,omitempty"`
	Sex           *string    `db:"sex" json:"sex,omitempty"`
	Address       *string    `db:"address" json:"address,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	NIC           *string    `db:"nic" json:"nic,omitempty"`
	MOHArea       *string    `db:"moh_area" json:"moh_area,omitempty"`
	EthnicGroup   *string    `db:"ethnic_group" json:"ethnic_group,omitempty"`
	Religion      *string    `db:"religion" json:"religion,omitempty"`
	Occupation    *string    `db:"occupation" json:"occupation,omitempty"`
	MaritalStatus *string    `db:"marital_status" json:"marital_status,omitempty"`
	Status        Status     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	MedicalProblems []string `db:"-" json:"medical_problems,omitempty"`
	Allergies       []string `db:"-" json:"allergies,omitempty"`
}

// AgeAt returns completed years between DOB and at, or false when DOB is unknown.
func (p *Patient) AgeAt(at time.Time) (int, bool) {
	if p.DOB == nil {
		return 0, false
	}
	dob := *p.DOB
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	return years, true
}

// MedicalProblem maps to the medical_problem table.
type MedicalProblem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Problem   string    `db:"problem" json:"problem"`
}

// Allergy maps to the allergy table.
type Allergy struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Allergy   string    `db:"allergy" json:"allergy"`
}
