package admission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/renalward/internal/platform/db"
)

const activeIndex = "admission_one_active_per_patient"

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const admCols = `id, patient_id, bht_number, number, active, discharge_summary_available,
	admitted_on, admission_time, ward, ward_number, bed_id,
	consultant_name, referred_by, primary_diagnosis, admission_type, admitting_officer, presenting_complaints,
	exam_temp_c, exam_height_cm, exam_weight_kg, exam_bmi, exam_blood_pressure, exam_heart_rate,
	created_at, updated_at`

func scanAdm(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.BHTNumber, &a.Number, &a.Active, &a.DischargeSummaryAvailable,
		&a.AdmittedOn, &a.AdmissionTime, &a.Ward, &a.WardNumber, &a.BedID,
		&a.ConsultantName, &a.ReferredBy, &a.PrimaryDiagnosis, &a.AdmissionType, &a.AdmittingOfficer, &a.PresentingComplaints,
		&a.ExamTempC, &a.ExamHeightCm, &a.ExamWeightKg, &a.ExamBMI, &a.ExamBloodPressure, &a.ExamHeartRate,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admission (
			id, patient_id, bht_number, number, active, discharge_summary_available,
			admitted_on, admission_time, ward, ward_number, bed_id,
			consultant_name, referred_by, primary_diagnosis, admission_type, admitting_officer, presenting_complaints,
			exam_temp_c, exam_height_cm, exam_weight_kg, exam_bmi, exam_blood_pressure, exam_heart_rate
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,
			$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23
		)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.BHTNumber, a.Number, a.Active, a.DischargeSummaryAvailable,
		a.AdmittedOn, a.AdmissionTime, a.Ward, a.WardNumber, a.BedID,
		a.ConsultantName, a.ReferredBy, a.PrimaryDiagnosis, a.AdmissionType, a.AdmittingOfficer, a.PresentingComplaints,
		a.ExamTempC, a.ExamHeightCm, a.ExamWeightKg, a.ExamBMI, a.ExamBloodPressure, a.ExamHeartRate,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if constraint, dup := db.IsUniqueViolation(err); dup && constraint == activeIndex {
			return ErrActiveExists
		}
		return fmt.Errorf("insert admission: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return scanAdm(r.conn(ctx).QueryRow(ctx, `SELECT `+admCols+` FROM admission WHERE id = $1`, id))
}

func (r *repoPG) GetActive(ctx context.Context, patientID uuid.UUID) (*Admission, error) {
	return scanAdm(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+` FROM admission WHERE patient_id = $1 AND active`, patientID))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Admission, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+admCols+` FROM admission
		WHERE patient_id = $1
		ORDER BY admitted_on DESC, admission_time DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := scanAdm(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission WHERE patient_id = $1`, patientID).Scan(&n)
	return n, err
}

func (r *repoPG) Close(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admission SET active = FALSE, discharge_summary_available = TRUE, updated_at = NOW()
		WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("close admission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotActive
	}
	return nil
}
