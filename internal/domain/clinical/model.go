package clinical

import (
	"time"

	"github.com/google/uuid"
)

// ProgressNote maps to the progress_note table. Notes are immutable once
// written; every measurement is optional.
type ProgressNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AdmissionID   uuid.UUID `db:"admission_id" json:"admission_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	TempC         *float64  `db:"temp_c" json:"temp_c,omitempty"`
	WeightKg      *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BPHigh        *int      `db:"bp_high" json:"bp_high,omitempty"`
	BPLow         *int      `db:"bp_low" json:"bp_low,omitempty"`
	HeartRate     *int      `db:"heart_rate" json:"heart_rate,omitempty"`
	InputMl       *int      `db:"input_ml" json:"input_ml,omitempty"`
	UrineOutputMl *int      `db:"urine_output_ml" json:"urine_output_ml,omitempty"`
	PDBalance     *int      `db:"pd_balance" json:"pd_balance,omitempty"`
	TotalBalance  *int      `db:"total_balance" json:"total_balance,omitempty"`
}

// Measurements is the client-supplied part of a progress note.
type Measurements struct {
	TempC         *float64 `json:"temp_c"`
	WeightKg      *float64 `json:"weight_kg"`
	BPHigh        *int     `json:"bp_high"`
	BPLow         *int     `json:"bp_low"`
	HeartRate     *int     `json:"heart_rate"`
	InputMl       *int     `json:"input_ml"`
	UrineOutputMl *int     `json:"urine_output_ml"`
	PDBalance     *int     `json:"pd_balance"`
	TotalBalance  *int     `json:"total_balance"`
}

// DischargeSummary maps to the discharge_summary table. One per admission.
type DischargeSummary struct {
	ID              uuid.UUID `db:"id" json:"id"`
	AdmissionID     uuid.UUID `db:"admission_id" json:"admission_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DischargeDate   time.Time `db:"discharge_date" json:"discharge_date"`
	Diagnosis       *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	ICD10           *string   `db:"icd10" json:"icd10,omitempty"`
	ProgressSummary *string   `db:"progress_summary" json:"progress_summary,omitempty"`
	Management      *string   `db:"management" json:"management,omitempty"`
	DischargePlan   *string   `db:"discharge_plan" json:"discharge_plan,omitempty"`
	DrugsFreeHand   *string   `db:"drugs_free_hand" json:"drugs_free_hand,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// SummaryInput is the client-supplied part of a discharge summary.
// DischargeDate is "YYYY-MM-DD"; anything else falls back to today.
type SummaryInput struct {
	DischargeDate   string  `json:"discharge_date"`
	Diagnosis       *string `json:"diagnosis"`
	ICD10           *string `json:"icd10"`
	ProgressSummary *string `json:"progress_summary"`
	Management      *string `json:"management"`
	DischargePlan   *string `json:"discharge_plan"`
	DrugsFreeHand   *string `json:"drugs_free_hand"`
}
